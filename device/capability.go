package device

import (
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

// Capability is an abstract tag describing the kind of work a queue
// can execute. The native queue-flag bitmask only appears at the
// driver boundary, everything above it works with these tags.
type Capability uint8

const (
	Graphics Capability = 1 << iota
	Compute
	Transfer
)

func (c Capability) String() string {
	switch c {
	case Graphics:
		return "Graphics"
	case Compute:
		return "Compute"
	case Transfer:
		return "Transfer"
	}
	return "Unknown"
}

// CapabilitySet is a closed set of Capability tags. A queue family may
// carry several capabilities at once.
type CapabilitySet uint8

// NewCapabilitySet builds a set out of individual tags.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether the set carries the given tag.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// ContainsAll reports whether every tag in other is also in s.
func (s CapabilitySet) ContainsAll(other CapabilitySet) bool {
	return s&other == other
}

func (s CapabilitySet) String() string {
	if s == 0 {
		return "{}"
	}
	names := make([]string, 0, 3)
	for _, c := range []Capability{Graphics, Compute, Transfer} {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, "|") + "}"
}

// CapabilitiesOf maps a native queue-flag bitmask onto the abstract
// tag set. Each bit is considered independently.
func CapabilitiesOf(flags vk.QueueFlags) CapabilitySet {
	var s CapabilitySet
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		s |= CapabilitySet(Graphics)
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		s |= CapabilitySet(Compute)
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		s |= CapabilitySet(Transfer)
	}
	return s
}

// QueueFlags converts the set back into the native bitmask.
func (s CapabilitySet) QueueFlags() vk.QueueFlags {
	var flags vk.QueueFlags
	if s.Has(Graphics) {
		flags |= vk.QueueFlags(vk.QueueGraphicsBit)
	}
	if s.Has(Compute) {
		flags |= vk.QueueFlags(vk.QueueComputeBit)
	}
	if s.Has(Transfer) {
		flags |= vk.QueueFlags(vk.QueueTransferBit)
	}
	return flags
}
