package device

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// QueueRequest asks for a number of queues with a given capability set,
// optionally able to present to the surface the resolver is given.
type QueueRequest struct {
	Capabilities   CapabilitySet
	RequirePresent bool
	Count          uint32
}

// QueueFamily is one resolved request: the family index that satisfies
// it, how many queues the request takes from that family, and what the
// request asked for. Resolution produces exactly one QueueFamily per
// request, in request order.
type QueueFamily struct {
	FamilyIndex   uint32
	Count         uint32
	Capabilities  CapabilitySet
	AllowsPresent bool
}

// ResolveQueueRequests finds a queue family for every request, in input
// order. For each request, families are scanned by ascending index and
// the first family whose capability set covers the request (and which
// can present, if required) wins. There is no scoring and no
// backtracking. A request with no matching family fails the whole
// resolution.
//
// Two requests may resolve to the same family. The summed queue counts
// per family are checked against the count the family advertises.
func ResolveQueueRequests(dev RealDevice, surface vk.Surface, requests []QueueRequest) ([]QueueFamily, error) {
	log.Info("resolving queue requests against device queue families")

	resolved := make([]QueueFamily, 0, len(requests))
	for _, request := range requests {
		log.Debugf("resolving queue request: capabilities %s, present %v, count %d",
			request.Capabilities, request.RequirePresent, request.Count)

		descriptors := dev.QueueFamilyDescriptors()

		matched := false
		for index, descriptor := range descriptors {
			familyIndex := uint32(index)

			supportsPresent, err := dev.SupportsPresent(familyIndex, surface)
			if err != nil {
				return nil, err
			}
			if request.RequirePresent && !supportsPresent {
				continue
			}

			if !CapabilitiesOf(descriptor.Flags).ContainsAll(request.Capabilities) {
				continue
			}

			resolved = append(resolved, QueueFamily{
				FamilyIndex:   familyIndex,
				Count:         request.Count,
				Capabilities:  request.Capabilities,
				AllowsPresent: supportsPresent,
			})
			matched = true
			break
		}

		if !matched {
			return nil, fmt.Errorf("%w: capabilities %s, present %v",
				ErrUnsatisfiableRequest, request.Capabilities, request.RequirePresent)
		}
	}

	if err := checkFamilyQuotas(dev.QueueFamilyDescriptors(), resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// checkFamilyQuotas verifies that the queues taken from each family,
// summed over all resolved requests, stay within the count the family
// advertises.
func checkFamilyQuotas(descriptors []QueueFamilyDescriptor, resolved []QueueFamily) error {
	for familyIndex, total := range mergeFamilyCounts(resolved) {
		if int(familyIndex) >= len(descriptors) {
			continue
		}
		if advertised := descriptors[familyIndex].Count; total > advertised {
			return fmt.Errorf("%w: family %d advertises %d queues, %d requested",
				ErrQueueQuotaExceeded, familyIndex, advertised, total)
		}
	}
	return nil
}

func mergeFamilyCounts(resolved []QueueFamily) map[uint32]uint32 {
	merged := make(map[uint32]uint32, len(resolved))
	for _, family := range resolved {
		merged[family.FamilyIndex] += family.Count
	}
	return merged
}

// QueueCreateInfos merges the resolved records into the minimal set of
// queue-creation descriptors: one per distinct family index, with the
// summed queue count and a matching priorities vector. Requesting the
// same family twice is rejected by drivers, which is why the merge
// exists at all.
func QueueCreateInfos(resolved []QueueFamily) []vk.DeviceQueueCreateInfo {
	merged := mergeFamilyCounts(resolved)

	indices := maps.Keys(merged)
	slices.Sort(indices)

	infos := make([]vk.DeviceQueueCreateInfo, 0, len(indices))
	for _, familyIndex := range indices {
		count := merged[familyIndex]
		priorities := make([]float32, count)
		for i := range priorities {
			priorities[i] = 1.0
		}
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: familyIndex,
			QueueCount:       count,
			PQueuePriorities: priorities,
		})
	}
	return infos
}

// queueAssignment names one concrete queue slot on the device: the
// family it comes from, its index within that family, and the buckets
// the handle should be filed into.
type queueAssignment struct {
	familyIndex   uint32
	queueIndex    uint32
	capabilities  CapabilitySet
	allowsPresent bool
}

// planQueueAssignments walks the resolved records once, threading a
// per-family offset so that records sharing a family consume disjoint
// queue indices. No (family, queue index) pair appears twice in the
// plan, which is what lets the render loop later submit to distinct
// handles from distinct workers without locking.
func planQueueAssignments(resolved []QueueFamily) []queueAssignment {
	offsets := make(map[uint32]uint32, len(resolved))

	var plan []queueAssignment
	for _, family := range resolved {
		offset := offsets[family.FamilyIndex]
		for i := uint32(0); i < family.Count; i++ {
			plan = append(plan, queueAssignment{
				familyIndex:   family.FamilyIndex,
				queueIndex:    offset + i,
				capabilities:  family.Capabilities,
				allowsPresent: family.AllowsPresent,
			})
		}
		offsets[family.FamilyIndex] = offset + family.Count
	}
	return plan
}

// Queues owns the extracted queue handles bucketed by purpose, plus
// the family index used for each purpose. A handle appears in every
// bucket its resolving request asked for.
type Queues struct {
	Graphics            []vk.Queue
	GraphicsFamilyIndex uint32
	Present             []vk.Queue
	PresentFamilyIndex  uint32
	Compute             []vk.Queue
	ComputeFamilyIndex  uint32
	Transfer            []vk.Queue
	TransferFamilyIndex uint32
}

// ExtractQueues pulls the concrete queue handles for the resolved
// records out of a created logical device.
func ExtractQueues(logicalDevice vk.Device, resolved []QueueFamily) Queues {
	return bucketQueues(resolved, func(family, index uint32) vk.Queue {
		var queue vk.Queue
		vk.GetDeviceQueue(logicalDevice, family, index, &queue)
		return queue
	})
}

func bucketQueues(resolved []QueueFamily, get func(family, index uint32) vk.Queue) Queues {
	var queues Queues
	for _, assignment := range planQueueAssignments(resolved) {
		handle := get(assignment.familyIndex, assignment.queueIndex)

		if assignment.capabilities.Has(Graphics) {
			queues.Graphics = append(queues.Graphics, handle)
			queues.GraphicsFamilyIndex = assignment.familyIndex
		}
		if assignment.capabilities.Has(Compute) {
			queues.Compute = append(queues.Compute, handle)
			queues.ComputeFamilyIndex = assignment.familyIndex
		}
		if assignment.capabilities.Has(Transfer) {
			queues.Transfer = append(queues.Transfer, handle)
			queues.TransferFamilyIndex = assignment.familyIndex
		}
		if assignment.allowsPresent {
			queues.Present = append(queues.Present, handle)
			queues.PresentFamilyIndex = assignment.familyIndex
		}
	}
	return queues
}
