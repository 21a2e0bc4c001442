package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
	"unsafe"

	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"

	"github.com/kiln3d/kiln/cache"
	"github.com/kiln3d/kiln/core"
	"github.com/kiln3d/kiln/device"
	"github.com/kiln3d/kiln/swapchain"
)

func init() {
	runtime.LockOSThread()
}

// Essential globals
var (
	vkInstance core.Instance
	sdlWindow  *sdl.Window
	sdlSurface unsafe.Pointer

	shaderBox = packr.NewBox("./shaders")
)

var (
	cpuProfile = flag.String("cpuprof", "", "Profile CPU usage to file")
	debug      = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
)

var configuration = core.Configuration{
	Time: core.TimeConfiguration{
		FramesPerSecond: 60,
		EventPollDelay:  50,
	},
	Instance: core.InstanceConfiguration{
		Layers: []string{},
	},
	Device: core.DeviceConfiguration{
		Extensions: []string{
			"VK_KHR_swapchain",
		},
		Requests: []device.QueueRequest{
			{Capabilities: device.NewCapabilitySet(device.Graphics), RequirePresent: true, Count: 1},
			{Capabilities: device.NewCapabilitySet(device.Transfer), Count: 1},
		},
		PipelineCacheFile: "kiln.kpc",
	},
	Screen: core.ScreenConfiguration{
		Width:  800,
		Height: 600,
	},
}

func newWindow() *sdl.Window {
	window, err := sdl.CreateWindow("Kiln3D",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(configuration.Screen.Width),
		int32(configuration.Screen.Height),
		sdl.WINDOW_VULKAN)
	if err != nil {
		log.Fatal(err)
	}
	return window
}

func pickDevice(surface vk.Surface) device.RealDevice {
	for _, d := range vkInstance.RealDevices() {
		if ok, reason := device.Suitable(d, surface, configuration.Device.Extensions); !ok {
			log.WithField("reason", reason).Info("skipping device")
			continue
		}
		log.WithField("device", d.Info().Name).Info("device selected")
		return d
	}
	log.Fatal("no suitable device found")
	return nil
}

func loadPipelineCache(logical *device.LogicalDevice, header cache.Header) vk.PipelineCache {
	createInfo := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	blob, err := cache.Load(configuration.Device.PipelineCacheFile, header)
	switch {
	case err == nil && len(blob) > 0:
		createInfo.InitialDataSize = uint(len(blob))
		createInfo.PInitialData = unsafe.Pointer(&blob[0])
		log.WithField("bytes", len(blob)).Info("pipeline cache primed from disk")
	case os.IsNotExist(err):
		// first run
	case err != nil:
		log.WithError(err).Warn("ignoring saved pipeline cache")
	}

	var pipelineCache vk.PipelineCache
	if err := vk.Error(vk.CreatePipelineCache(logical.VKDevice, &createInfo, nil, &pipelineCache)); err != nil {
		log.WithError(err).Fatal("vk.CreatePipelineCache()")
	}
	return pipelineCache
}

func savePipelineCache(logical *device.LogicalDevice, pipelineCache vk.PipelineCache, header cache.Header) {
	var size uint
	if err := vk.Error(vk.GetPipelineCacheData(logical.VKDevice, pipelineCache, &size, nil)); err != nil {
		log.WithError(err).Warn("vk.GetPipelineCacheData()")
		return
	}
	if size == 0 {
		return
	}
	blob := make([]byte, size)
	if err := vk.Error(vk.GetPipelineCacheData(logical.VKDevice, pipelineCache, &size, unsafe.Pointer(&blob[0]))); err != nil {
		log.WithError(err).Warn("vk.GetPipelineCacheData()")
		return
	}
	header.DateSaved = time.Now().Unix()
	if err := cache.Save(configuration.Device.PipelineCacheFile, header, blob); err != nil {
		log.WithError(err).Warn("pipeline cache not saved")
		return
	}
	log.WithField("bytes", len(blob)).Info("pipeline cache saved")
}

func loadShaders(logical *device.LogicalDevice) []core.Shader {
	names, types, err := core.ShaderSources(shaderBox)
	if err != nil {
		log.WithError(err).Fatal("shader listing failed")
	}

	shaders := make([]core.Shader, 0, len(names))
	for idx, name := range names {
		shader, err := core.NewVulkanShader(name, types[idx], shaderBox.Bytes(name), logical.VKDevice)
		if err != nil {
			log.WithError(err).WithField("shader", name).Fatal("shader module creation failed")
		}
		log.WithField("shader", shader.Name()).Info("shader loaded")
		shaders = append(shaders, shader)
	}
	return shaders
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("env file not loaded")
	}
	configuration = core.FromEnv(configuration)
	if *debug {
		configuration.Instance.DebugMode = true
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow = newWindow()
	defer sdlWindow.Destroy()

	{
		cfg := configuration.Instance
		cfg.Extensions = append(cfg.Extensions, sdlWindow.VulkanGetInstanceExtensions()...)

		vi, err := core.NewVulkanInstance(core.DefaultVulkanApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), cfg)
		if err != nil {
			log.Fatal(err)
		}
		vkInstance = vi
	}
	defer vkInstance.Destroy()

	if srf, err := sdlWindow.VulkanCreateSurface(vkInstance.Handle()); err != nil {
		log.Fatal(err)
	} else {
		sdlSurface = srf
		vkInstance.SetSurface(sdlSurface)
	}

	chosen := pickDevice(vkInstance.Surface())

	logical, err := device.NewLogicalDevice(chosen, vkInstance.Surface(), configuration.Device.Requests, configuration.Device.Extensions)
	if err != nil {
		log.Fatal(err)
	}
	defer logical.Destroy()

	drawableW, drawableH := sdlWindow.VulkanGetDrawableSize()
	chain, err := swapchain.New(swapchain.PixelSize{
		Width:  uint32(drawableW),
		Height: uint32(drawableH),
	}, chosen, logical, vkInstance.Surface())
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"images": len(chain.Images),
		"width":  chain.Extent.Width,
		"height": chain.Extent.Height,
	}).Info("swapchain ready")

	shaders := loadShaders(logical)

	info := chosen.Info()
	cacheHeader := cache.Header{
		DeviceName:    info.Name,
		VendorID:      info.VendorID,
		DeviceID:      info.ID,
		DriverVersion: info.DriverVersion,
	}
	pipelineCache := loadPipelineCache(logical, cacheHeader)

	clock := core.NewTime(configuration.Time)
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-clock.EventTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		}
	}
	clock.Stop()

	logical.WaitIdle()
	savePipelineCache(logical, pipelineCache, cacheHeader)
	vk.DestroyPipelineCache(logical.VKDevice, pipelineCache, nil)
	for _, shader := range shaders {
		shader.Destroy()
	}
	chain.Destroy(logical.VKDevice)
}
