package device_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/hellotriangle/vkdevice/internal/device"
	"github.com/hellotriangle/vkdevice/internal/gpu"
	"github.com/hellotriangle/vkdevice/internal/gpu/gputest"
)

var (
	srgbBGRA = khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	srgbRGBA = khr_surface.SurfaceFormat{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	graphicsFamily = gpu.QueueFamily{Flags: core1_0.QueueGraphics, QueueCount: 1}
	otherFamily    = gpu.QueueFamily{Flags: core1_0.QueueFlags(0), QueueCount: 1}

	identityTransform = khr_surface.SurfaceTransformFlags(1)
)

type presentationNeeds struct {
	instance []string
	device   []string
}

func (n presentationNeeds) RequiredInstanceExtensions() []string { return n.instance }

func (n presentationNeeds) RequiredDeviceExtensions() []string { return n.device }

var windowNeeds = presentationNeeds{
	instance: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
	device:   []string{khr_swapchain.ExtensionName},
}

type fakeSurface struct {
	id   gpu.SurfaceID
	size core1_0.Extent2D
}

func (s fakeSurface) ID() gpu.SurfaceID { return s.id }

func (s fakeSurface) Size() core1_0.Extent2D { return s.size }

var window = fakeSurface{size: core1_0.Extent2D{Width: 800, Height: 600}}

// capableCard returns an adapter that meets the default requirements with a
// single family handling graphics and presentation.
func capableCard(name string) *gputest.Adapter {
	return &gputest.Adapter{
		Properties: gpu.AdapterProperties{Name: name, ID: 0x1000, Type: core1_0.PhysicalDeviceType(2)},
		Features:   []string{"tessellationShader", "geometryShader"},
		Memory:     gpu.MemoryLayout{TypeCount: 2, HeapCount: 1, HeapBytes: 1 << 30},
		Families:   []gpu.QueueFamily{graphicsFamily},
		Extensions: []string{khr_swapchain.ExtensionName},
		Surface: gputest.Surface{
			Capabilities: gpu.SurfaceCapabilities{
				MinImageCount:    2,
				MaxImageCount:    8,
				CurrentExtent:    core1_0.Extent2D{Width: 800, Height: 600},
				MinImageExtent:   core1_0.Extent2D{Width: 1, Height: 1},
				MaxImageExtent:   core1_0.Extent2D{Width: 4096, Height: 4096},
				CurrentTransform: identityTransform,
			},
			Formats:         []khr_surface.SurfaceFormat{srgbRGBA, srgbBGRA},
			PresentModes:    []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
			PresentFamilies: []int{0},
		},
	}
}

func defaultRequirements(c *qt.C) *device.Requirements {
	req, err := device.NewRequirements(&gputest.Host{}, windowNeeds, device.RequirementOptions{
		Features: []string{"tessellationShader"},
	})
	c.Assert(err, qt.IsNil)
	return req
}

func testLogger(t testing.TB) (*logrus.Logger, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func messages(hook *test.Hook) []string {
	var all []string
	for _, entry := range hook.AllEntries() {
		all = append(all, entry.Message)
	}
	return all
}
