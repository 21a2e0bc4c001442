package main

import (
	"encoding/json"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kiln3d/kiln/core"
)

// kilncli dumps the physical device inventory as JSON, for poking at a
// machine before deciding what to ask of it.
func main() {
	pretty := flag.Bool("pretty", false, "Indent the JSON output")
	flag.Parse()

	cfg := core.InstanceConfiguration{
		DebugMode:  false,
		Extensions: []string{},
		Layers:     []string{},
	}

	coreInstance, err := core.NewVulkanInstance(core.DefaultVulkanApplicationInfo, nil, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer coreInstance.Destroy()

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(coreInstance.PhysicalDevicesInfo()); err != nil {
		log.Fatal(err)
	}
}
