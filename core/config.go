package core

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"

	"github.com/kiln3d/kiln/device"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Instance InstanceConfiguration
	Device   DeviceConfiguration
	Screen   ScreenConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the pause between window event polls,
	// in milliseconds
	EventPollDelay int
}

// InstanceConfiguration is used to configure the Vulkan instance
type InstanceConfiguration struct {
	DebugMode  bool
	Extensions []string
	Layers     []string
}

// DeviceConfiguration is used to configure logical device creation
type DeviceConfiguration struct {
	Extensions []string
	Requests   []device.QueueRequest

	ShaderDirectory   string
	PipelineCacheFile string
}

// ScreenConfiguration is used to configure the output window
type ScreenConfiguration struct {
	Width  uint32
	Height uint32
}

// FromEnv overlays environment variables onto cfg. Missing variables
// leave the passed-in value untouched, unparseable ones too.
func FromEnv(cfg Configuration) Configuration {
	envy.Reload()
	cfg.Time.FramesPerSecond = envInt("KILN_FPS", cfg.Time.FramesPerSecond)
	cfg.Time.EventPollDelay = envInt("KILN_EVENT_POLL_DELAY", cfg.Time.EventPollDelay)
	cfg.Instance.DebugMode = envBool("KILN_DEBUG", cfg.Instance.DebugMode)
	cfg.Screen.Width = envUint32("KILN_SCREEN_WIDTH", cfg.Screen.Width)
	cfg.Screen.Height = envUint32("KILN_SCREEN_HEIGHT", cfg.Screen.Height)
	cfg.Device.ShaderDirectory = envy.Get("KILN_SHADER_DIR", cfg.Device.ShaderDirectory)
	cfg.Device.PipelineCacheFile = envy.Get("KILN_PIPELINE_CACHE", cfg.Device.PipelineCacheFile)
	return cfg
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(envy.Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func envUint32(key string, fallback uint32) uint32 {
	v, err := strconv.ParseUint(envy.Get(key, strconv.FormatUint(uint64(fallback), 10)), 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(v)
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.ToLower(envy.Get(key, strconv.FormatBool(fallback))))
	if err != nil {
		return fallback
	}
	return v
}
