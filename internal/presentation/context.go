// Package presentation owns the SDL window that device bootstrap presents to.
package presentation

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

type WindowOptions struct {
	Title  string
	Width  int
	Height int
}

// Context holds SDL's video subsystem and one Vulkan-capable window. SDL is
// shut down by Close, which must run on every exit path once NewContext has
// succeeded.
//
// SDL must be driven from the main thread.
type Context struct {
	window *sdl.Window
}

func NewContext(opts WindowOptions) (*Context, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "failed to initialize SDL video")
	}

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(opts.Width), int32(opts.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "failed to create window")
	}

	return &Context{window: window}, nil
}

// ProcAddr returns vkGetInstanceProcAddr from the Vulkan library SDL loaded.
func (c *Context) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (c *Context) RequiredInstanceExtensions() []string {
	return c.window.VulkanGetInstanceExtensions()
}

func (c *Context) RequiredDeviceExtensions() []string {
	return []string{khr_swapchain.ExtensionName}
}

// CreateSurface creates a Vulkan surface for the window on instance.
func (c *Context) CreateSurface(instance core1_0.Instance) (*Surface, error) {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(instance)

	surface, err := vkng_sdl2.CreateSurface(instance, surfaceLoader, c.window)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window surface")
	}
	return &Surface{surface: surface, window: c.window}, nil
}

// WaitForQuit blocks until the window is closed.
func (c *Context) WaitForQuit() {
	for {
		if _, quit := sdl.WaitEvent().(*sdl.QuitEvent); quit {
			return
		}
	}
}

func (c *Context) Close() {
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
}
