package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kiln3d/kiln/device"
)

// Destroyable is anything that holds driver resources and has to be
// released explicitly, in reverse creation order.
type Destroyable interface {
	// Destroy destroys internal members
	Destroy()
}

// Instance describes a Vulkan instance and supporting methods.
// Once created it is ready to use.
type Instance interface {
	// PhysicalDevicesInfo returns a struct for each Physical Device
	// along with info about those devices
	PhysicalDevicesInfo() []device.PhysicalDeviceInfo

	// RealDevices returns the physical accelerators the instance
	// enumerated at creation
	RealDevices() []device.RealDevice

	// SetSurface sets the window surface for rendering
	SetSurface(unsafe.Pointer)

	// Surface returns the window surface, if it's not set
	// it should return a valid but empty surface
	Surface() vk.Surface

	// Extensions returns the instance extensions in use
	Extensions() []string

	// Handle returns the raw instance handle of the underlying API
	Handle() vk.Instance

	// Destroy destroys internal members
	Destroy()
}

// Shader describes a loaded shader byte-code module
type Shader interface {
	// Type returns the kind of pipeline stage the shader feeds
	Type() ShaderType

	// ShaderModule is an accessor to the underlying API module
	ShaderModule() interface{}

	// Name returns the shader name without extensions
	Name() string

	// Destroy destroys internal members
	Destroy()
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)
