package device

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// EnumerateRealDevices lists the physical devices visible through the
// given instance.
func EnumerateRealDevices(instance vk.Instance) ([]RealDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, &DriverCallError{Call: "vk.EnumeratePhysicalDevices", Err: err}
	}
	handles := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, handles)); err != nil {
		return nil, &DriverCallError{Call: "vk.EnumeratePhysicalDevices", Err: err}
	}

	devices := make([]RealDevice, len(handles))
	for i, h := range handles {
		devices[i] = &VulkanRealDevice{handle: h}
	}
	return devices, nil
}

// VulkanRealDevice is the driver-backed RealDevice. It holds only the
// raw handle, all queries go straight to the driver.
type VulkanRealDevice struct {
	handle vk.PhysicalDevice
}

// Handle implements interface
func (d *VulkanRealDevice) Handle() vk.PhysicalDevice {
	return d.handle
}

// Properties implements interface
func (d *VulkanRealDevice) Properties() vk.PhysicalDeviceProperties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.handle, &properties)
	properties.Deref()
	return properties
}

// Features implements interface
func (d *VulkanRealDevice) Features() vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(d.handle, &features)
	features.Deref()
	return features
}

// QueueFamilyDescriptors implements interface
func (d *VulkanRealDevice) QueueFamilyDescriptors() []QueueFamilyDescriptor {
	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(d.handle, &familyCount, nil)
	properties := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(d.handle, &familyCount, properties)

	descriptors := make([]QueueFamilyDescriptor, familyCount)
	for i := range properties {
		properties[i].Deref()
		descriptors[i] = QueueFamilyDescriptor{
			Flags: properties[i].QueueFlags,
			Count: properties[i].QueueCount,
		}
	}
	return descriptors
}

// SupportsPresent implements interface
func (d *VulkanRealDevice) SupportsPresent(family uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(d.handle, family, surface, &supported)); err != nil {
		return false, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfaceSupport", Err: err}
	}
	return supported == vk.True, nil
}

// SurfaceCapabilities implements interface
func (d *VulkanRealDevice) SurfaceCapabilities(surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.handle, surface, &capabilities)); err != nil {
		return capabilities, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfaceCapabilities", Err: err}
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	return capabilities, nil
}

// SurfaceFormats implements interface
func (d *VulkanRealDevice) SurfaceFormats(surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.handle, surface, &formatCount, nil)); err != nil {
		return nil, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfaceFormats", Err: err}
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.handle, surface, &formatCount, formats)); err != nil {
		return nil, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfaceFormats", Err: err}
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

// SurfacePresentModes implements interface
func (d *VulkanRealDevice) SurfacePresentModes(surface vk.Surface) ([]vk.PresentMode, error) {
	var modeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(d.handle, surface, &modeCount, nil)); err != nil {
		return nil, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfacePresentModes", Err: err}
	}
	modes := make([]vk.PresentMode, modeCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(d.handle, surface, &modeCount, modes)); err != nil {
		return nil, &DriverCallError{Call: "vk.GetPhysicalDeviceSurfacePresentModes", Err: err}
	}
	return modes, nil
}

// SupportedExtensions implements interface
func (d *VulkanRealDevice) SupportedExtensions() ([]string, error) {
	var extensionCount uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(d.handle, "", &extensionCount, nil)); err != nil {
		return nil, &DriverCallError{Call: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}
	properties := make([]vk.ExtensionProperties, extensionCount)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(d.handle, "", &extensionCount, properties)); err != nil {
		return nil, &DriverCallError{Call: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}

	names := make([]string, len(properties))
	for i := range properties {
		properties[i].Deref()
		names[i] = vk.ToString(properties[i].ExtensionName[:])
	}
	return names, nil
}

// Info implements interface
func (d *VulkanRealDevice) Info() PhysicalDeviceInfo {
	var info PhysicalDeviceInfo

	properties := d.Properties()
	info.ID = int(properties.DeviceID)
	info.VendorID = int(properties.VendorID)
	info.Name = vk.ToString(properties.DeviceName[:])
	info.DriverVersion = int(properties.DriverVersion)

	extensions, err := d.SupportedExtensions()
	if err != nil {
		info.Invalid = true
	}
	info.Extensions = extensions

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.handle, &memoryProperties)
	memoryProperties.Deref()
	for i := uint32(0); i < memoryProperties.MemoryHeapCount; i++ {
		memoryProperties.MemoryHeaps[i].Deref()
		info.Memory = info.Memory + uint(memoryProperties.MemoryHeaps[i].Size)
	}

	return info
}

func (d *VulkanRealDevice) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.Info().Name)
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}
