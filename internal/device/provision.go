package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_surface"
	"golang.org/x/exp/slices"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Surface is the drawable a Device presents to.
type Surface interface {
	ID() gpu.SurfaceID
	// Size is the drawable size in pixels.
	Size() core1_0.Extent2D
}

// Device owns a logical device, its swapchain and one view per swapchain
// image. Queues and images belong to the device and the swapchain.
type Device struct {
	factory gpu.DeviceFactory

	device    gpu.DeviceID
	swapchain gpu.SwapchainID

	format   khr_surface.SurfaceFormat
	extent   core1_0.Extent2D
	families QueueFamilies

	graphicsQueue     gpu.QueueID
	presentationQueue gpu.QueueID

	images []gpu.ImageID
	views  []gpu.ImageViewID

	destroyed bool
}

// Provision creates a logical device on adapter and a swapchain presenting to
// surface. On error, everything created so far has been released.
func Provision(factory gpu.DeviceFactory, req *Requirements, support *SurfaceSupport, surface Surface, adapter *Adapter) (*Device, error) {
	if support.Adapter() != adapter.ID() || support.Surface() != surface.ID() {
		return nil, errors.AssertionFailedf("surface support was evaluated for adapter %d surface %d, not adapter %d surface %d",
			support.Adapter(), support.Surface(), adapter.ID(), surface.ID())
	}
	if !support.IsAcceptable() {
		return nil, errors.AssertionFailedf("surface support is not acceptable")
	}

	d := &Device{
		factory:  factory,
		format:   support.BestFormat(),
		extent:   support.BestExtentFor(surface.Size()),
		families: support.QueueFamilyIndexes(),
	}

	var err error
	d.device, err = createDevice(factory, req, d.families, adapter)
	if err != nil {
		return nil, err
	}

	if err := d.createSwapchain(support, surface); err != nil {
		factory.DestroyDevice(d.device)
		return nil, err
	}

	if err := d.createImageViews(); err != nil {
		d.release()
		return nil, err
	}

	if err := d.getQueues(); err != nil {
		d.release()
		return nil, err
	}

	return d, nil
}

func createDevice(factory gpu.DeviceFactory, req *Requirements, families QueueFamilies, adapter *Adapter) (gpu.DeviceID, error) {
	uniqueFamilies := []int{families.Graphics, families.Presentation}
	slices.Sort(uniqueFamilies)
	uniqueFamilies = slices.Compact(uniqueFamilies)

	var queues []gpu.QueueRequest
	for _, family := range uniqueFamilies {
		queues = append(queues, gpu.QueueRequest{
			Family:     family,
			Priorities: []float32{1.0},
		})
	}

	extensions := req.DeviceExtensions()

	// Portability drivers refuse to create devices unless the application
	// acknowledges that the driver is not fully conformant.
	portable, err := adapter.HasExtension(khr_portability_subset.ExtensionName)
	if err != nil {
		return 0, err
	}
	if portable {
		extensions = appendUnique(extensions, khr_portability_subset.ExtensionName)
	}

	device, err := factory.CreateDevice(adapter.ID(), gpu.DeviceCreateInfo{
		Queues:     queues,
		Layers:     req.Layers(),
		Extensions: extensions,
		Features:   gpu.NewNameSet(req.Features()...),
	})
	if err != nil {
		return 0, gpu.CallFailed("vkCreateDevice", err)
	}
	return device, nil
}

// SwapchainSharing returns the sharing mode and queue family list for
// swapchain images used by families.
//
// Images stay exclusive even when two families use them; the family list is
// only passed when the families differ.
func SwapchainSharing(families QueueFamilies) (core1_0.SharingMode, []int) {
	if families.Unified() {
		return core1_0.SharingModeExclusive, nil
	}
	return core1_0.SharingModeExclusive, []int{families.Graphics, families.Presentation}
}

func (d *Device) createSwapchain(support *SurfaceSupport, surface Surface) error {
	sharingMode, familyIndices := SwapchainSharing(d.families)

	swapchain, err := d.factory.CreateSwapchain(d.device, gpu.SwapchainCreateInfo{
		Surface:       surface.ID(),
		MinImageCount: support.BestImageCount(),
		Format:        d.format,
		Extent:        d.extent,
		PresentMode:   support.BestMode(),
		PreTransform:  support.CurrentTransform(),

		SharingMode:        sharingMode,
		QueueFamilyIndices: familyIndices,
	})
	if err != nil {
		return gpu.CallFailed("vkCreateSwapchainKHR", err)
	}
	d.swapchain = swapchain
	return nil
}

func (d *Device) createImageViews() error {
	images, err := d.factory.SwapchainImages(d.device, d.swapchain)
	if err != nil {
		return gpu.CallFailed("vkGetSwapchainImagesKHR", err)
	}
	d.images = images

	d.views = make([]gpu.ImageViewID, 0, len(images))
	for _, image := range images {
		view, err := d.factory.CreateImageView(d.device, image, d.format.Format)
		if err != nil {
			return gpu.CallFailed("vkCreateImageView", err)
		}
		d.views = append(d.views, view)
	}
	return nil
}

func (d *Device) getQueues() error {
	var err error
	d.graphicsQueue, err = d.factory.Queue(d.device, d.families.Graphics, 0)
	if err != nil {
		return gpu.CallFailed("vkGetDeviceQueue", err)
	}

	d.presentationQueue, err = d.factory.Queue(d.device, d.families.Presentation, 0)
	if err != nil {
		return gpu.CallFailed("vkGetDeviceQueue", err)
	}
	return nil
}

func (d *Device) release() {
	for _, view := range d.views {
		d.factory.DestroyImageView(d.device, view)
	}
	d.views = nil
	d.images = nil

	d.factory.DestroySwapchain(d.device, d.swapchain)
	d.factory.DestroyDevice(d.device)
	d.destroyed = true
}

// Destroy blocks until the device has finished all submitted work, then
// releases the image views, the swapchain and the device, in that order.
func (d *Device) Destroy() error {
	if d.destroyed {
		return nil
	}

	if err := d.factory.WaitIdle(d.device); err != nil {
		return gpu.CallFailed("vkDeviceWaitIdle", err)
	}
	d.release()
	return nil
}

func (d *Device) Handle() gpu.DeviceID { return d.device }

func (d *Device) Swapchain() gpu.SwapchainID { return d.swapchain }

func (d *Device) Format() khr_surface.SurfaceFormat { return d.format }

func (d *Device) Extent() core1_0.Extent2D { return d.extent }

func (d *Device) Families() QueueFamilies { return d.families }

func (d *Device) GraphicsQueue() gpu.QueueID { return d.graphicsQueue }

func (d *Device) PresentationQueue() gpu.QueueID { return d.presentationQueue }

func (d *Device) Images() []gpu.ImageID { return slices.Clone(d.images) }

func (d *Device) ImageViews() []gpu.ImageViewID { return slices.Clone(d.views) }
