package device

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilyDescriptor describes one queue family as the driver
// advertises it: what the family can do and how many queues it holds.
type QueueFamilyDescriptor struct {
	Flags vk.QueueFlags
	Count uint32
}

// PhysicalDeviceInfo describes available properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Memory        uint
}

// RealDevice gives read-only access to one physical accelerator.
// Nothing is cached: every call reaches into the driver, callers that
// need repeated access should keep the result themselves.
type RealDevice interface {
	// Handle returns the raw physical device handle.
	Handle() vk.PhysicalDevice

	// Properties queries general device properties.
	Properties() vk.PhysicalDeviceProperties

	// Features queries the feature set the device supports.
	Features() vk.PhysicalDeviceFeatures

	// QueueFamilyDescriptors lists the device's queue families in
	// family-index order.
	QueueFamilyDescriptors() []QueueFamilyDescriptor

	// SupportsPresent reports whether the given family can present
	// images to the surface.
	SupportsPresent(family uint32, surface vk.Surface) (bool, error)

	// SurfaceCapabilities queries the surface capabilities for this
	// device and surface pair.
	SurfaceCapabilities(surface vk.Surface) (vk.SurfaceCapabilities, error)

	// SurfaceFormats lists the surface formats the device can present.
	SurfaceFormats(surface vk.Surface) ([]vk.SurfaceFormat, error)

	// SurfacePresentModes lists the supported present modes.
	SurfacePresentModes(surface vk.Surface) ([]vk.PresentMode, error)

	// SupportedExtensions lists the names of the device extensions.
	SupportedExtensions() ([]string, error)

	// Info summarises the device for inventory listings.
	Info() PhysicalDeviceInfo
}

// Suitable checks whether the device can serve the renderer at all:
// it must expose the geometry shader feature, support every required
// device extension and present at least one surface format and one
// present mode. If not suitable, the string carries the reason.
func Suitable(d RealDevice, surface vk.Surface, extensions []string) (bool, string) {
	features := d.Features()
	if features.GeometryShader != vk.True {
		return false, "device has no geometry shader support"
	}

	supported, err := d.SupportedExtensions()
	if err != nil {
		return false, fmt.Sprintf("could not list device extensions: %s", err)
	}
	for _, required := range extensions {
		found := false
		for _, name := range supported {
			if name == required {
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Sprintf("device extension %q is not supported", required)
		}
	}

	formats, err := d.SurfaceFormats(surface)
	if err != nil {
		return false, fmt.Sprintf("could not query surface formats: %s", err)
	}
	if len(formats) == 0 {
		return false, "device presents no surface formats"
	}

	modes, err := d.SurfacePresentModes(surface)
	if err != nil {
		return false, fmt.Sprintf("could not query present modes: %s", err)
	}
	if len(modes) == 0 {
		return false, "device presents no present modes"
	}

	return true, ""
}
