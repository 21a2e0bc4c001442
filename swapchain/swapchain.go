// Package swapchain negotiates a surface configuration with the driver
// and owns the resulting image chain and its views. The surface and
// logical device are referenced, never owned; callers destroy the chain
// before the device and the device before the surface.
package swapchain

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kiln3d/kiln/device"
)

// PixelSize is a window drawable size in pixels.
type PixelSize struct {
	Width  uint32
	Height uint32
}

// Swapchain bundles the driver object with the images it produced and
// the configuration that was actually negotiated.
type Swapchain struct {
	VKSwapchain vk.Swapchain
	Images      []vk.Image
	ImageViews  []vk.ImageView

	Format     vk.Format
	ColorSpace vk.ColorSpace
	Extent     vk.Extent2D
}

// New negotiates and creates a swapchain for the given surface on the
// given logical device, fetches its images and builds one identity
// view per image. Every driver call that fails reports which call it
// was.
func New(size PixelSize, real device.RealDevice, logical *device.LogicalDevice, surface vk.Surface) (*Swapchain, error) {
	capabilities, err := real.SurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}
	formats, err := real.SurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	modes, err := real.SurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}

	format, err := chooseSurfaceFormat(formats)
	if err != nil {
		return nil, err
	}
	mode, err := choosePresentMode(modes)
	if err != nil {
		return nil, err
	}
	extent := chooseExtent(capabilities, size)
	imageCount := chooseImageCount(capabilities)
	sharingMode, familyIndices := chooseSharing(logical.Queues)

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: sharingMode,
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      mode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if sharingMode == vk.SharingModeConcurrent {
		createInfo.QueueFamilyIndexCount = uint32(len(familyIndices))
		createInfo.PQueueFamilyIndices = familyIndices
	}

	var chain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(logical.VKDevice, &createInfo, nil, &chain)); err != nil {
		return nil, &device.DriverCallError{Call: "vk.CreateSwapchain", Err: err}
	}

	sc := &Swapchain{
		VKSwapchain: chain,
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		Extent:      extent,
	}

	if err := sc.fetchImages(logical.VKDevice); err != nil {
		vk.DestroySwapchain(logical.VKDevice, chain, nil)
		return nil, err
	}
	if err := sc.createImageViews(logical.VKDevice); err != nil {
		sc.Destroy(logical.VKDevice)
		return nil, err
	}
	return sc, nil
}

func (s *Swapchain) fetchImages(logicalDevice vk.Device) error {
	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(logicalDevice, s.VKSwapchain, &count, nil)); err != nil {
		return &device.DriverCallError{Call: "vk.GetSwapchainImages", Err: err}
	}
	images := make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(logicalDevice, s.VKSwapchain, &count, images)); err != nil {
		return &device.DriverCallError{Call: "vk.GetSwapchainImages", Err: err}
	}
	s.Images = images
	return nil
}

func (s *Swapchain) createImageViews(logicalDevice vk.Device) error {
	s.ImageViews = make([]vk.ImageView, 0, len(s.Images))
	for _, image := range s.Images {
		createInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   s.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		var view vk.ImageView
		if err := vk.Error(vk.CreateImageView(logicalDevice, &createInfo, nil, &view)); err != nil {
			return &device.DriverCallError{Call: "vk.CreateImageView", Err: err}
		}
		s.ImageViews = append(s.ImageViews, view)
	}
	return nil
}

// Destroy releases the image views first and the chain last. The
// images themselves belong to the chain and go with it.
func (s *Swapchain) Destroy(logicalDevice vk.Device) {
	for _, view := range s.ImageViews {
		vk.DestroyImageView(logicalDevice, view, nil)
	}
	s.ImageViews = nil
	vk.DestroySwapchain(logicalDevice, s.VKSwapchain, nil)
	s.Images = nil
}
