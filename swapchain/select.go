package swapchain

import (
	"errors"
	"math"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kiln3d/kiln/device"
)

// package errors
var (
	// ErrNoSuitableFormat means the surface reported no formats at all.
	// Device suitability checks should have caught this earlier; it is
	// surfaced rather than silently defaulted.
	ErrNoSuitableFormat = errors.New("surface reports no suitable format")

	// ErrNoSuitablePresentMode is the matching defensive error for an
	// empty present-mode list.
	ErrNoSuitablePresentMode = errors.New("surface reports no suitable present mode")
)

// chooseSurfaceFormat prefers 8-bit BGRA storage with sRGB-nonlinear
// color space wherever it sits in the list, and otherwise takes the
// first entry the surface offers.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, ErrNoSuitableFormat
	}
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format, nil
		}
	}
	return formats[0], nil
}

// choosePresentMode prefers mailbox for low latency without tearing and
// falls back to FIFO, which the API contract guarantees is available.
func choosePresentMode(modes []vk.PresentMode) (vk.PresentMode, error) {
	if len(modes) == 0 {
		return vk.PresentModeFifo, ErrNoSuitablePresentMode
	}
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode, nil
		}
	}
	return vk.PresentModeFifo, nil
}

// chooseExtent takes the surface's current extent verbatim unless the
// surface reports the "pick it yourself" sentinel, in which case the
// window pixel size clamped to the supported range wins.
func chooseExtent(capabilities vk.SurfaceCapabilities, size PixelSize) vk.Extent2D {
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		return capabilities.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(size.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(size.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseImageCount asks for one image more than the driver minimum so
// the renderer rarely waits on internal driver work, bounded by the
// maximum when the surface reports one (zero means unbounded).
func chooseImageCount(capabilities vk.SurfaceCapabilities) uint32 {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount != 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

// chooseSharing picks concurrent sharing across the graphics and
// present families when the resolved handles differ, and exclusive
// ownership with no index list otherwise.
func chooseSharing(queues device.Queues) (vk.SharingMode, []uint32) {
	if len(queues.Graphics) == 0 || len(queues.Present) == 0 {
		return vk.SharingModeExclusive, nil
	}
	if queues.Graphics[0] != queues.Present[0] {
		indices := []uint32{queues.GraphicsFamilyIndex}
		if queues.PresentFamilyIndex != queues.GraphicsFamilyIndex {
			indices = append(indices, queues.PresentFamilyIndex)
		}
		return vk.SharingModeConcurrent, indices
	}
	return vk.SharingModeExclusive, nil
}
