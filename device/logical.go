package device

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// LogicalDevice is the created device object together with the queue
// handles extracted from it. It is created once per session and must
// be destroyed after everything built on top of it.
type LogicalDevice struct {
	RealDevice RealDevice
	VKDevice   vk.Device
	Queues     Queues
}

// NewLogicalDevice resolves the queue requests against the real
// device, creates the logical device with the merged queue descriptors
// and the given extensions, and extracts the queue handles.
//
// Geometry shader support is enabled unconditionally; devices lacking
// it are expected to have been filtered out by Suitable beforehand.
// Any driver-level creation failure is fatal and returned, never
// retried.
func NewLogicalDevice(real RealDevice, surface vk.Surface, requests []QueueRequest, extensions []string) (*LogicalDevice, error) {
	resolved, err := ResolveQueueRequests(real, surface, requests)
	if err != nil {
		return nil, fmt.Errorf("device.ResolveQueueRequests(): %w", err)
	}

	queueInfos := QueueCreateInfos(resolved)
	log.Debugf("creating logical device with %d queue create infos, extensions %v",
		len(queueInfos), extensions)

	features := []vk.PhysicalDeviceFeatures{{
		GeometryShader: vk.True,
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		PEnabledFeatures:        features,
	}

	var vkDevice vk.Device
	if err := vk.Error(vk.CreateDevice(real.Handle(), &dci, nil, &vkDevice)); err != nil {
		return nil, &DriverCallError{Call: "vk.CreateDevice", Err: err}
	}

	return &LogicalDevice{
		RealDevice: real,
		VKDevice:   vkDevice,
		Queues:     ExtractQueues(vkDevice, resolved),
	}, nil
}

// WaitIdle blocks until the device finishes all outstanding work.
func (d *LogicalDevice) WaitIdle() {
	vk.DeviceWaitIdle(d.VKDevice)
}

// Destroy destroys the device and, with it, every queue it owns. All
// dependent objects must be gone by the time this is called.
func (d *LogicalDevice) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}
