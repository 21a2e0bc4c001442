package device

import (
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"
)

// fakeDevice is an in-memory RealDevice used to exercise resolution
// without a driver.
type fakeDevice struct {
	descriptors []QueueFamilyDescriptor
	present     map[uint32]bool
	features    vk.PhysicalDeviceFeatures
	extensions  []string
	formats     []vk.SurfaceFormat
	modes       []vk.PresentMode
}

func (f *fakeDevice) Handle() vk.PhysicalDevice { return nil }

func (f *fakeDevice) Properties() vk.PhysicalDeviceProperties {
	return vk.PhysicalDeviceProperties{}
}

func (f *fakeDevice) Features() vk.PhysicalDeviceFeatures { return f.features }

func (f *fakeDevice) QueueFamilyDescriptors() []QueueFamilyDescriptor {
	return f.descriptors
}

func (f *fakeDevice) SupportsPresent(family uint32, _ vk.Surface) (bool, error) {
	return f.present[family], nil
}

func (f *fakeDevice) SurfaceCapabilities(_ vk.Surface) (vk.SurfaceCapabilities, error) {
	return vk.SurfaceCapabilities{}, nil
}

func (f *fakeDevice) SurfaceFormats(_ vk.Surface) ([]vk.SurfaceFormat, error) {
	return f.formats, nil
}

func (f *fakeDevice) SurfacePresentModes(_ vk.Surface) ([]vk.PresentMode, error) {
	return f.modes, nil
}

func (f *fakeDevice) SupportedExtensions() ([]string, error) { return f.extensions, nil }

func (f *fakeDevice) Info() PhysicalDeviceInfo { return PhysicalDeviceInfo{} }

func graphicsFlags() vk.QueueFlags {
	return vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit)
}

func TestResolveInRequestOrder(t *testing.T) {
	c := qt.New(t)

	dev := &fakeDevice{
		descriptors: []QueueFamilyDescriptor{
			{Flags: graphicsFlags(), Count: 4},
			{Flags: vk.QueueFlags(vk.QueueComputeBit | vk.QueueTransferBit), Count: 2},
			{Flags: vk.QueueFlags(vk.QueueTransferBit), Count: 1},
		},
		present: map[uint32]bool{0: true},
	}

	requests := []QueueRequest{
		{Capabilities: NewCapabilitySet(Graphics), RequirePresent: true, Count: 1},
		{Capabilities: NewCapabilitySet(Compute), Count: 2},
		{Capabilities: NewCapabilitySet(Transfer), Count: 1},
	}

	resolved, err := ResolveQueueRequests(dev, vk.NullSurface, requests)
	c.Assert(err, qt.IsNil)
	c.Assert(resolved, qt.HasLen, 3)

	// One record per request, in request order, first matching family
	// by ascending index.
	c.Check(resolved[0].FamilyIndex, qt.Equals, uint32(0))
	c.Check(resolved[0].AllowsPresent, qt.Equals, true)
	c.Check(resolved[1].FamilyIndex, qt.Equals, uint32(1))
	c.Check(resolved[2].FamilyIndex, qt.Equals, uint32(0))
	c.Check(resolved[2].Count, qt.Equals, uint32(1))
}

func TestResolvePresentConstraintSkipsFamilies(t *testing.T) {
	c := qt.New(t)

	// Family 0 can do graphics but not present; family 1 can do both.
	dev := &fakeDevice{
		descriptors: []QueueFamilyDescriptor{
			{Flags: graphicsFlags(), Count: 1},
			{Flags: graphicsFlags(), Count: 1},
		},
		present: map[uint32]bool{1: true},
	}

	resolved, err := ResolveQueueRequests(dev, vk.NullSurface, []QueueRequest{
		{Capabilities: NewCapabilitySet(Graphics), RequirePresent: true, Count: 1},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(resolved[0].FamilyIndex, qt.Equals, uint32(1))
}

func TestResolveUnsatisfiableFailsWhole(t *testing.T) {
	c := qt.New(t)

	dev := &fakeDevice{
		descriptors: []QueueFamilyDescriptor{
			{Flags: graphicsFlags(), Count: 4},
		},
		present: map[uint32]bool{0: true},
	}

	// The first request is satisfiable, the second is not. No partial
	// result may come back.
	resolved, err := ResolveQueueRequests(dev, vk.NullSurface, []QueueRequest{
		{Capabilities: NewCapabilitySet(Graphics), Count: 1},
		{Capabilities: NewCapabilitySet(Compute), Count: 1},
	})
	c.Assert(err, qt.ErrorIs, ErrUnsatisfiableRequest)
	c.Assert(resolved, qt.IsNil)
}

func TestResolveQuotaExceeded(t *testing.T) {
	c := qt.New(t)

	dev := &fakeDevice{
		descriptors: []QueueFamilyDescriptor{
			{Flags: graphicsFlags(), Count: 2},
		},
		present: map[uint32]bool{0: true},
	}

	_, err := ResolveQueueRequests(dev, vk.NullSurface, []QueueRequest{
		{Capabilities: NewCapabilitySet(Graphics), Count: 2},
		{Capabilities: NewCapabilitySet(Transfer), Count: 1},
	})
	c.Assert(err, qt.ErrorIs, ErrQueueQuotaExceeded)
}

func TestQueueCreateInfosMergeByFamily(t *testing.T) {
	c := qt.New(t)

	resolved := []QueueFamily{
		{FamilyIndex: 0, Count: 2, Capabilities: NewCapabilitySet(Graphics)},
		{FamilyIndex: 1, Count: 1, Capabilities: NewCapabilitySet(Compute)},
		{FamilyIndex: 0, Count: 3, Capabilities: NewCapabilitySet(Transfer)},
	}

	infos := QueueCreateInfos(resolved)
	c.Assert(infos, qt.HasLen, 2)

	c.Check(infos[0].QueueFamilyIndex, qt.Equals, uint32(0))
	c.Check(infos[0].QueueCount, qt.Equals, uint32(5))
	c.Check(infos[0].PQueuePriorities, qt.HasLen, 5)
	for _, p := range infos[0].PQueuePriorities {
		c.Check(p, qt.Equals, float32(1.0))
	}

	c.Check(infos[1].QueueFamilyIndex, qt.Equals, uint32(1))
	c.Check(infos[1].QueueCount, qt.Equals, uint32(1))
	c.Check(infos[1].PQueuePriorities, qt.HasLen, 1)
}

func TestPlanAssignsDistinctQueueSlots(t *testing.T) {
	c := qt.New(t)

	resolved := []QueueFamily{
		{FamilyIndex: 0, Count: 2, Capabilities: NewCapabilitySet(Graphics)},
		{FamilyIndex: 0, Count: 2, Capabilities: NewCapabilitySet(Transfer)},
		{FamilyIndex: 1, Count: 1, Capabilities: NewCapabilitySet(Compute)},
	}

	plan := planQueueAssignments(resolved)
	c.Assert(plan, qt.HasLen, 5)

	type slot struct{ family, index uint32 }
	seen := make(map[slot]bool)
	for _, assignment := range plan {
		s := slot{assignment.familyIndex, assignment.queueIndex}
		c.Assert(seen[s], qt.Equals, false, qt.Commentf("slot %v assigned twice", s))
		seen[s] = true
	}

	// The second record on family 0 starts where the first stopped.
	c.Check(plan[2].familyIndex, qt.Equals, uint32(0))
	c.Check(plan[2].queueIndex, qt.Equals, uint32(2))
	c.Check(plan[3].queueIndex, qt.Equals, uint32(3))
}

func TestBucketQueuesFilesByRequestCapabilities(t *testing.T) {
	c := qt.New(t)

	// Family 0 carries graphics, transfer and present; family 1 only
	// transfer. The transfer request may land on either family, the
	// transfer bucket must still end up with exactly one handle.
	dev := &fakeDevice{
		descriptors: []QueueFamilyDescriptor{
			{Flags: graphicsFlags(), Count: 4},
			{Flags: vk.QueueFlags(vk.QueueTransferBit), Count: 1},
		},
		present: map[uint32]bool{0: true},
	}

	resolved, err := ResolveQueueRequests(dev, vk.NullSurface, []QueueRequest{
		{Capabilities: NewCapabilitySet(Graphics), RequirePresent: true, Count: 1},
		{Capabilities: NewCapabilitySet(Transfer), Count: 1},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(resolved[0].FamilyIndex, qt.Equals, uint32(0))

	queues := bucketQueues(resolved, func(family, index uint32) vk.Queue {
		return nil
	})
	c.Check(queues.Graphics, qt.HasLen, 1)
	c.Check(queues.Transfer, qt.HasLen, 1)
	c.Check(queues.GraphicsFamilyIndex, qt.Equals, uint32(0))
	c.Check(queues.PresentFamilyIndex, qt.Equals, uint32(0))
}

func TestBucketQueuesMultipleBuckets(t *testing.T) {
	c := qt.New(t)

	resolved := []QueueFamily{
		{FamilyIndex: 2, Count: 2, Capabilities: NewCapabilitySet(Graphics, Transfer), AllowsPresent: true},
	}

	var calls int
	queues := bucketQueues(resolved, func(family, index uint32) vk.Queue {
		calls++
		c.Check(family, qt.Equals, uint32(2))
		return nil
	})

	// Each extracted handle shows up in every bucket its request named.
	c.Check(calls, qt.Equals, 2)
	c.Check(queues.Graphics, qt.HasLen, 2)
	c.Check(queues.Transfer, qt.HasLen, 2)
	c.Check(queues.Present, qt.HasLen, 2)
	c.Check(queues.Compute, qt.HasLen, 0)
	c.Check(queues.TransferFamilyIndex, qt.Equals, uint32(2))
}
