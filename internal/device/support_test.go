package device_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"

	"github.com/hellotriangle/vkdevice/internal/device"
	"github.com/hellotriangle/vkdevice/internal/gpu"
	"github.com/hellotriangle/vkdevice/internal/gpu/gputest"
)

var surfaceCaps = gpu.SurfaceCapabilities{
	MinImageCount:    2,
	MaxImageCount:    3,
	MinImageExtent:   core1_0.Extent2D{Width: 200, Height: 100},
	MaxImageExtent:   core1_0.Extent2D{Width: 1920, Height: 1080},
	CurrentTransform: identityTransform,
}

func support(formats []khr_surface.SurfaceFormat, modes []khr_surface.PresentMode) *device.SurfaceSupport {
	return device.NewSurfaceSupport(surfaceCaps, formats, modes, []int{0}, []int{0})
}

func TestBestFormat(t *testing.T) {
	c := qt.New(t)

	unorm := khr_surface.SurfaceFormat{Format: core1_0.Format(44), ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	fifo := []khr_surface.PresentMode{khr_surface.PresentModeFIFO}

	c.Assert(support([]khr_surface.SurfaceFormat{unorm, srgbRGBA, srgbBGRA}, fifo).BestFormat(), qt.Equals, srgbBGRA)
	c.Assert(support([]khr_surface.SurfaceFormat{srgbRGBA, unorm}, fifo).BestFormat(), qt.Equals, srgbRGBA)

	// The preferred format must also be in the preferred color space.
	otherSpace := khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear + 1}
	c.Assert(support([]khr_surface.SurfaceFormat{unorm, otherSpace}, fifo).BestFormat(), qt.Equals, unorm)
}

func TestBestMode(t *testing.T) {
	c := qt.New(t)

	formats := []khr_surface.SurfaceFormat{srgbBGRA}
	immediate := khr_surface.PresentMode(0)

	c.Assert(support(formats, []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox}).BestMode(),
		qt.Equals, khr_surface.PresentModeMailbox)
	c.Assert(support(formats, []khr_surface.PresentMode{immediate, khr_surface.PresentModeFIFO}).BestMode(),
		qt.Equals, khr_surface.PresentModeFIFO)

	c.Assert(func() {
		support(formats, []khr_surface.PresentMode{immediate}).BestMode()
	}, qt.PanicMatches, `.*does not list the FIFO present mode.*`)
}

func TestBestExtentFor(t *testing.T) {
	tests := []struct {
		size core1_0.Extent2D
		want core1_0.Extent2D
	}{
		{size: core1_0.Extent2D{Width: 800, Height: 600}, want: core1_0.Extent2D{Width: 800, Height: 600}},
		{size: core1_0.Extent2D{Width: 10, Height: 5000}, want: core1_0.Extent2D{Width: 200, Height: 1080}},
		{size: core1_0.Extent2D{Width: 4000, Height: 0}, want: core1_0.Extent2D{Width: 1920, Height: 100}},
		{size: core1_0.Extent2D{Width: 1920, Height: 100}, want: core1_0.Extent2D{Width: 1920, Height: 100}},
	}

	s := support([]khr_surface.SurfaceFormat{srgbBGRA}, []khr_surface.PresentMode{khr_surface.PresentModeFIFO})
	for _, test := range tests {
		qt.Check(t, s.BestExtentFor(test.size), qt.Equals, test.want, qt.Commentf("size %v", test.size))
	}
}

func TestBestImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     int
	}{
		{name: "room for one more", min: 2, max: 3, want: 3},
		{name: "unbounded", min: 2, max: 0, want: 3},
		{name: "capped", min: 3, max: 3, want: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			caps := surfaceCaps
			caps.MinImageCount = test.min
			caps.MaxImageCount = test.max
			s := device.NewSurfaceSupport(caps, []khr_surface.SurfaceFormat{srgbBGRA},
				[]khr_surface.PresentMode{khr_surface.PresentModeFIFO}, []int{0}, []int{0})

			qt.Assert(t, s.BestImageCount(), qt.Equals, test.want)
		})
	}
}

func TestIsAcceptable(t *testing.T) {
	c := qt.New(t)

	formats := []khr_surface.SurfaceFormat{srgbBGRA}
	modes := []khr_surface.PresentMode{khr_surface.PresentModeFIFO}

	c.Assert(device.NewSurfaceSupport(surfaceCaps, formats, modes, []int{0}, []int{0}).IsAcceptable(), qt.IsTrue)
	c.Assert(device.NewSurfaceSupport(surfaceCaps, nil, modes, []int{0}, []int{0}).IsAcceptable(), qt.IsFalse)
	c.Assert(device.NewSurfaceSupport(surfaceCaps, formats, nil, []int{0}, []int{0}).IsAcceptable(), qt.IsFalse)
	c.Assert(device.NewSurfaceSupport(surfaceCaps, formats, modes, nil, []int{0}).IsAcceptable(), qt.IsFalse)
	c.Assert(device.NewSurfaceSupport(surfaceCaps, formats, modes, []int{0}, nil).IsAcceptable(), qt.IsFalse)
}

func TestPoliciesRequireAcceptableSurface(t *testing.T) {
	c := qt.New(t)

	s := device.NewSurfaceSupport(surfaceCaps, nil, []khr_surface.PresentMode{khr_surface.PresentModeFIFO}, []int{0}, []int{0})

	c.Assert(func() { s.BestFormat() }, qt.PanicMatches, `.*BestFormat called on an unacceptable surface.*`)
	c.Assert(func() { s.BestMode() }, qt.PanicMatches, `.*BestMode called on an unacceptable surface.*`)
	c.Assert(func() { s.QueueFamilyIndexes() }, qt.PanicMatches, `.*QueueFamilyIndexes called on an unacceptable surface.*`)
}

func TestQueueFamilyIndexes(t *testing.T) {
	tests := []struct {
		name                   string
		graphics, presentation []int
		want                   device.QueueFamilies
	}{{
		name:         "shared family",
		graphics:     []int{0, 2},
		presentation: []int{3, 2},
		want:         device.QueueFamilies{Graphics: 2, Presentation: 2},
	}, {
		name:         "lowest shared family",
		graphics:     []int{4, 1, 2},
		presentation: []int{2, 1},
		want:         device.QueueFamilies{Graphics: 1, Presentation: 1},
	}, {
		name:         "no shared family",
		graphics:     []int{0},
		presentation: []int{1},
		want:         device.QueueFamilies{Graphics: 0, Presentation: 0},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := device.NewSurfaceSupport(surfaceCaps, []khr_surface.SurfaceFormat{srgbBGRA},
				[]khr_surface.PresentMode{khr_surface.PresentModeFIFO}, test.graphics, test.presentation)

			families := s.QueueFamilyIndexes()
			qt.Assert(t, families, qt.Equals, test.want)
			qt.Assert(t, families.Unified(), qt.IsTrue)
		})
	}
}

func TestEvaluate(t *testing.T) {
	c := qt.New(t)

	card := capableCard("Discrete")
	card.Families = []gpu.QueueFamily{otherFamily, graphicsFamily, graphicsFamily}
	card.Surface.PresentFamilies = []int{0, 2}
	backend := &gputest.Backend{Cards: []*gputest.Adapter{card}}

	adapter, err := device.NewAdapter(backend, 0)
	c.Assert(err, qt.IsNil)

	s, err := device.Evaluate(backend, adapter, 7)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Adapter(), qt.Equals, gpu.AdapterID(0))
	c.Assert(s.Surface(), qt.Equals, gpu.SurfaceID(7))
	c.Assert(s.PresentationFamilyIndices(), qt.DeepEquals, []int{0, 2})
	c.Assert(s.IsAcceptable(), qt.IsTrue)
	c.Assert(s.QueueFamilyIndexes(), qt.Equals, device.QueueFamilies{Graphics: 2, Presentation: 2})
	c.Assert(s.CurrentTransform(), qt.Equals, identityTransform)
	c.Assert(backend.CallCount("SupportsPresentation[0"), qt.Equals, 3)
}
