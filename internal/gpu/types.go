package gpu

import (
	"fmt"

	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

type AdapterProperties struct {
	Name       string
	ID         uint32
	Type       core1_0.PhysicalDeviceType
	APIVersion common.APIVersion
}

func (p AdapterProperties) String() string {
	return fmt.Sprintf("%s id: %d type: %v API: %v", p.Name, p.ID, p.Type, p.APIVersion)
}

type MemoryLayout struct {
	TypeCount int
	HeapCount int
	HeapBytes int
}

type QueueFamily struct {
	Index      int
	Flags      core1_0.QueueFlags
	QueueCount int
}

func (f QueueFamily) SupportsGraphics() bool {
	return f.Flags&core1_0.QueueGraphics != 0
}

type SurfaceCapabilities struct {
	MinImageCount int
	// MaxImageCount is 0 when the surface places no upper bound.
	MaxImageCount int

	CurrentExtent  core1_0.Extent2D
	MinImageExtent core1_0.Extent2D
	MaxImageExtent core1_0.Extent2D

	CurrentTransform khr_surface.SurfaceTransformFlags
}

type QueueRequest struct {
	Family     int
	Priorities []float32
}

type DeviceCreateInfo struct {
	Queues     []QueueRequest
	Layers     []string
	Extensions []string
	Features   NameSet
}

type SwapchainCreateInfo struct {
	Surface       SurfaceID
	MinImageCount int
	Format        khr_surface.SurfaceFormat
	Extent        core1_0.Extent2D
	PresentMode   khr_surface.PresentMode
	PreTransform  khr_surface.SurfaceTransformFlags

	SharingMode core1_0.SharingMode
	// QueueFamilyIndices is empty when a single family uses the images.
	QueueFamilyIndices []int
}
