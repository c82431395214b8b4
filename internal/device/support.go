package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"golang.org/x/exp/slices"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// QueueFamilies is the pair of queue families a device is built around.
type QueueFamilies struct {
	Graphics     int
	Presentation int
}

func (q QueueFamilies) Unified() bool {
	return q.Graphics == q.Presentation
}

// SurfaceSupport is a snapshot of how one adapter can present to one surface.
//
// It is bound to the (adapter, surface) pair it was evaluated for, and can be
// discarded after a Device is provisioned.
type SurfaceSupport struct {
	adapter gpu.AdapterID
	surface gpu.SurfaceID

	capabilities gpu.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	modes        []khr_surface.PresentMode

	graphicsFamilies     []int
	presentationFamilies []int
}

// Evaluate queries the surface properties of adapter. It does not decide
// anything; see IsAcceptable.
func Evaluate(querier gpu.SurfaceQuerier, adapter *Adapter, surface gpu.SurfaceID) (*SurfaceSupport, error) {
	capabilities, err := querier.SurfaceCapabilities(adapter.ID(), surface)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceSurfaceCapabilitiesKHR", err)
	}

	formats, err := querier.SurfaceFormats(adapter.ID(), surface)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceSurfaceFormatsKHR", err)
	}

	modes, err := querier.SurfacePresentModes(adapter.ID(), surface)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceSurfacePresentModesKHR", err)
	}

	var presentationFamilies []int
	for family := 0; family < adapter.QueueFamilyCount(); family++ {
		supported, err := querier.SupportsPresentation(adapter.ID(), family, surface)
		if err != nil {
			return nil, gpu.CallFailed("vkGetPhysicalDeviceSurfaceSupportKHR", err)
		}
		if supported {
			presentationFamilies = append(presentationFamilies, family)
		}
	}

	support := NewSurfaceSupport(capabilities, formats, modes, adapter.GraphicsFamilyIndices(), presentationFamilies)
	support.adapter = adapter.ID()
	support.surface = surface
	return support, nil
}

// NewSurfaceSupport builds a snapshot from already-queried values.
func NewSurfaceSupport(
	capabilities gpu.SurfaceCapabilities,
	formats []khr_surface.SurfaceFormat,
	modes []khr_surface.PresentMode,
	graphicsFamilies, presentationFamilies []int,
) *SurfaceSupport {
	graphicsFamilies = slices.Clone(graphicsFamilies)
	presentationFamilies = slices.Clone(presentationFamilies)
	slices.Sort(graphicsFamilies)
	slices.Sort(presentationFamilies)

	return &SurfaceSupport{
		capabilities:         capabilities,
		formats:              slices.Clone(formats),
		modes:                slices.Clone(modes),
		graphicsFamilies:     slices.Compact(graphicsFamilies),
		presentationFamilies: slices.Compact(presentationFamilies),
	}
}

func (s *SurfaceSupport) Adapter() gpu.AdapterID { return s.adapter }

func (s *SurfaceSupport) Surface() gpu.SurfaceID { return s.surface }

func (s *SurfaceSupport) PresentationFamilyIndices() []int {
	return slices.Clone(s.presentationFamilies)
}

func (s *SurfaceSupport) IsAcceptable() bool {
	return len(s.formats) > 0 && len(s.modes) > 0 &&
		len(s.graphicsFamilies) > 0 && len(s.presentationFamilies) > 0
}

func (s *SurfaceSupport) mustBeAcceptable(method string) {
	if !s.IsAcceptable() {
		panic(errors.AssertionFailedf("SurfaceSupport.%s called on an unacceptable surface", method))
	}
}

func (s *SurfaceSupport) CurrentTransform() khr_surface.SurfaceTransformFlags {
	s.mustBeAcceptable("CurrentTransform")
	return s.capabilities.CurrentTransform
}

// BestFormat prefers 8-bit BGRA in the sRGB color space, and otherwise
// settles for the first format the surface lists.
func (s *SurfaceSupport) BestFormat() khr_surface.SurfaceFormat {
	s.mustBeAcceptable("BestFormat")

	for _, format := range s.formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}
	return s.formats[0]
}

func (s *SurfaceSupport) BestMode() khr_surface.PresentMode {
	s.mustBeAcceptable("BestMode")

	if slices.Contains(s.modes, khr_surface.PresentModeMailbox) {
		return khr_surface.PresentModeMailbox
	}

	// Every conformant surface supports FIFO.
	if !slices.Contains(s.modes, khr_surface.PresentModeFIFO) {
		panic(errors.AssertionFailedf("surface does not list the FIFO present mode"))
	}
	return khr_surface.PresentModeFIFO
}

// BestExtentFor clamps size into the surface's supported image extents.
func (s *SurfaceSupport) BestExtentFor(size core1_0.Extent2D) core1_0.Extent2D {
	s.mustBeAcceptable("BestExtentFor")

	return core1_0.Extent2D{
		Width:  clamp(size.Width, s.capabilities.MinImageExtent.Width, s.capabilities.MaxImageExtent.Width),
		Height: clamp(size.Height, s.capabilities.MinImageExtent.Height, s.capabilities.MaxImageExtent.Height),
	}
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func (s *SurfaceSupport) BestImageCount() int {
	s.mustBeAcceptable("BestImageCount")

	// One slack image reduces the risk of blocking on driver operations.
	count := s.capabilities.MinImageCount + 1
	if s.capabilities.MaxImageCount != 0 && s.capabilities.MaxImageCount < count {
		count = s.capabilities.MaxImageCount
	}
	return count
}

// QueueFamilyIndexes prefers one family that handles both graphics and
// presentation, which avoids sharing images across queues.
//
// When no family does both, the lowest graphics family is used for both
// roles. Adapters whose presentation families never overlap their graphics
// families are not handled.
func (s *SurfaceSupport) QueueFamilyIndexes() QueueFamilies {
	s.mustBeAcceptable("QueueFamilyIndexes")

	for _, family := range s.graphicsFamilies {
		if slices.Contains(s.presentationFamilies, family) {
			return QueueFamilies{Graphics: family, Presentation: family}
		}
	}

	return QueueFamilies{Graphics: s.graphicsFamilies[0], Presentation: s.graphicsFamilies[0]}
}
