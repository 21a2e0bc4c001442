package device

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	vk "github.com/vulkan-go/vulkan"
)

func suitableFake() *fakeDevice {
	return &fakeDevice{
		features:   vk.PhysicalDeviceFeatures{GeometryShader: vk.True},
		extensions: []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		modes: []vk.PresentMode{vk.PresentModeFifo},
	}
}

func TestSuitable(t *testing.T) {
	c := qt.New(t)

	ok, reason := Suitable(suitableFake(), vk.NullSurface, []string{"VK_KHR_swapchain"})
	c.Check(ok, qt.Equals, true)
	c.Check(reason, qt.Equals, "")
}

func TestSuitableRejectsMissingGeometryShader(t *testing.T) {
	c := qt.New(t)

	dev := suitableFake()
	dev.features.GeometryShader = vk.False

	ok, reason := Suitable(dev, vk.NullSurface, nil)
	c.Check(ok, qt.Equals, false)
	c.Check(strings.Contains(reason, "geometry shader"), qt.Equals, true)
}

func TestSuitableRejectsMissingExtension(t *testing.T) {
	c := qt.New(t)

	ok, reason := Suitable(suitableFake(), vk.NullSurface, []string{"VK_KHR_ray_tracing_pipeline"})
	c.Check(ok, qt.Equals, false)
	c.Check(strings.Contains(reason, "VK_KHR_ray_tracing_pipeline"), qt.Equals, true)
}

func TestSuitableRejectsBareSurface(t *testing.T) {
	c := qt.New(t)

	dev := suitableFake()
	dev.formats = nil
	ok, _ := Suitable(dev, vk.NullSurface, nil)
	c.Check(ok, qt.Equals, false)

	dev = suitableFake()
	dev.modes = nil
	ok, _ = Suitable(dev, vk.NullSurface, nil)
	c.Check(ok, qt.Equals, false)
}
