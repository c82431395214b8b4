package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Instance is the production gpu.Backend. Handles passed across the gpu
// boundary are indexes into the arenas below; destroyed slots are nil.
type Instance struct {
	instance  core1_0.Instance
	messenger ext_debug_utils.DebugUtilsMessenger
	log       logrus.FieldLogger

	adapters []core1_0.PhysicalDevice
	surfaces []khr_surface.Surface
	devices  []*logicalDevice
}

type logicalDevice struct {
	device     core1_0.Device
	swapchains khr_swapchain.Extension

	swapchainSlots []khr_swapchain.Swapchain
	images         []core1_0.Image
	views          []core1_0.ImageView
	queues         []core1_0.Queue
}

var _ gpu.Backend = (*Instance)(nil)

func (i *Instance) Handle() core1_0.Instance { return i.instance }

// AttachSurface registers a surface created on this instance. The caller
// keeps ownership of it.
func (i *Instance) AttachSurface(surface khr_surface.Surface) gpu.SurfaceID {
	i.surfaces = append(i.surfaces, surface)
	return gpu.SurfaceID(len(i.surfaces) - 1)
}

// DetachSurface forgets a surface before the caller destroys it.
func (i *Instance) DetachSurface(id gpu.SurfaceID) {
	if int(id) >= 0 && int(id) < len(i.surfaces) {
		i.surfaces[id] = nil
	}
}

// Destroy releases the debug messenger and the instance. Devices and
// surfaces must already be gone.
func (i *Instance) Destroy() {
	if i.messenger != nil {
		i.messenger.Destroy(nil)
		i.messenger = nil
	}
	if i.instance != nil {
		i.instance.Destroy(nil)
		i.instance = nil
	}
}

func (i *Instance) adapter(id gpu.AdapterID) (core1_0.PhysicalDevice, error) {
	if int(id) < 0 || int(id) >= len(i.adapters) {
		return nil, errors.AssertionFailedf("unknown adapter %d", id)
	}
	return i.adapters[id], nil
}

func (i *Instance) surface(id gpu.SurfaceID) (khr_surface.Surface, error) {
	if int(id) < 0 || int(id) >= len(i.surfaces) || i.surfaces[id] == nil {
		return nil, errors.AssertionFailedf("unknown surface %d", id)
	}
	return i.surfaces[id], nil
}

func (i *Instance) device(id gpu.DeviceID) (*logicalDevice, error) {
	if int(id) < 0 || int(id) >= len(i.devices) || i.devices[id] == nil {
		return nil, errors.AssertionFailedf("unknown device %d", id)
	}
	return i.devices[id], nil
}
