package presentation

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

type Surface struct {
	surface khr_surface.Surface
	window  *sdl.Window
}

func (s *Surface) Handle() khr_surface.Surface { return s.surface }

// Size is the drawable size in pixels, which differs from the window size on
// high-DPI displays.
func (s *Surface) Size() core1_0.Extent2D {
	width, height := s.window.VulkanGetDrawableSize()
	return core1_0.Extent2D{Width: int(width), Height: int(height)}
}

// Destroy releases the Vulkan surface. It must run before the instance is
// destroyed.
func (s *Surface) Destroy() {
	if s.surface != nil {
		s.surface.Destroy(nil)
		s.surface = nil
	}
}
