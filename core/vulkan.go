package core

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kiln3d/kiln/device"
)

// DefaultVulkanApplicationInfo application info describes a Vulkan application
var DefaultVulkanApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "Kiln3D\x00",
	PEngineName:        "Kiln3D\x00",
}

// NewVulkanInstance creates a Vulkan instance. procAddr is the loader's
// vkGetInstanceProcAddr as handed out by the windowing library; pass
// nil to use the system default loader.
func NewVulkanInstance(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg InstanceConfiguration) (Instance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, "VK_LAYER_KHRONOS_validation")
		cfg.Extensions = append(cfg.Extensions, "VK_EXT_debug_report")
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.InstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	/* Create instance */
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	/* Enumerate devices */
	devices, err := device.EnumerateRealDevices(instance)
	if err != nil {
		return nil, errors.New("device.EnumerateRealDevices(): " + err.Error())
	}

	return &VulkanInstance{
		configuration: cfg,
		instance:      instance,
		devices:       devices,
	}, nil
}

// VulkanInstance describes a Vulkan API Instance
type VulkanInstance struct {
	configuration InstanceConfiguration

	devices  []device.RealDevice
	surface  vk.Surface
	instance vk.Instance
}

// PhysicalDevicesInfo implements interface
func (v *VulkanInstance) PhysicalDevicesInfo() []device.PhysicalDeviceInfo {
	pdi := make([]device.PhysicalDeviceInfo, len(v.devices))
	for i, d := range v.devices {
		pdi[i] = d.Info()
	}
	return pdi
}

// RealDevices implements interface
func (v *VulkanInstance) RealDevices() []device.RealDevice {
	return v.devices
}

// SetSurface implements interface
func (v *VulkanInstance) SetSurface(pSurface unsafe.Pointer) {
	v.surface = vk.SurfaceFromPointer(uintptr(pSurface))
}

// Surface implements interface
func (v *VulkanInstance) Surface() vk.Surface {
	if v.surface == nil {
		return vk.NullSurface
	}
	return v.surface
}

// Extensions implements interface
func (v *VulkanInstance) Extensions() []string {
	return v.configuration.Extensions
}

// Handle implements interface
func (v *VulkanInstance) Handle() vk.Instance {
	return v.instance
}

// Destroy implements interface. The surface, when one was set, belongs
// to the instance and dies with it.
func (v *VulkanInstance) Destroy() {
	if v.surface != nil {
		vk.DestroySurface(v.instance, v.surface, nil)
	}
	v.devices = nil
	vk.DestroyInstance(v.instance, nil)
}
