package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

func (i *Instance) CreateDevice(id gpu.AdapterID, info gpu.DeviceCreateInfo) (gpu.DeviceID, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return 0, err
	}

	features, err := FeaturesFromNames(info.Features)
	if err != nil {
		return 0, err
	}

	queues := make([]core1_0.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, queue := range info.Queues {
		queues = append(queues, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queue.Family,
			QueuePriorities:  queue.Priorities,
		})
	}

	device, _, err := adapter.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledLayerNames:     info.Layers,
		EnabledExtensionNames: info.Extensions,
		EnabledFeatures:       features,
	})
	if err != nil {
		return 0, err
	}

	i.devices = append(i.devices, &logicalDevice{
		device:     device,
		swapchains: khr_swapchain.CreateExtensionFromDevice(device),
	})
	return gpu.DeviceID(len(i.devices) - 1), nil
}

func (i *Instance) CreateSwapchain(id gpu.DeviceID, info gpu.SwapchainCreateInfo) (gpu.SwapchainID, error) {
	device, err := i.device(id)
	if err != nil {
		return 0, err
	}
	surface, err := i.surface(info.Surface)
	if err != nil {
		return 0, err
	}

	swapchain, _, err := device.swapchains.CreateSwapchain(device.device, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      info.Format.Format,
		ImageColorSpace:  info.Format.ColorSpace,
		ImageExtent:      info.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   info.SharingMode,
		QueueFamilyIndices: info.QueueFamilyIndices,

		PreTransform:   info.PreTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    info.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return 0, err
	}

	device.swapchainSlots = append(device.swapchainSlots, swapchain)
	return gpu.SwapchainID(len(device.swapchainSlots) - 1), nil
}

func (d *logicalDevice) swapchain(id gpu.SwapchainID) (khr_swapchain.Swapchain, error) {
	if int(id) < 0 || int(id) >= len(d.swapchainSlots) || d.swapchainSlots[id] == nil {
		return nil, errors.AssertionFailedf("unknown swapchain %d", id)
	}
	return d.swapchainSlots[id], nil
}

func (i *Instance) SwapchainImages(id gpu.DeviceID, swapchainID gpu.SwapchainID) ([]gpu.ImageID, error) {
	device, err := i.device(id)
	if err != nil {
		return nil, err
	}
	swapchain, err := device.swapchain(swapchainID)
	if err != nil {
		return nil, err
	}

	images, _, err := swapchain.SwapchainImages()
	if err != nil {
		return nil, err
	}

	ids := make([]gpu.ImageID, 0, len(images))
	for _, image := range images {
		device.images = append(device.images, image)
		ids = append(ids, gpu.ImageID(len(device.images)-1))
	}
	return ids, nil
}

func (i *Instance) CreateImageView(id gpu.DeviceID, imageID gpu.ImageID, format core1_0.Format) (gpu.ImageViewID, error) {
	device, err := i.device(id)
	if err != nil {
		return 0, err
	}
	if int(imageID) < 0 || int(imageID) >= len(device.images) {
		return 0, errors.AssertionFailedf("unknown image %d", imageID)
	}

	view, _, err := device.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    device.images[imageID],
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return 0, err
	}

	device.views = append(device.views, view)
	return gpu.ImageViewID(len(device.views) - 1), nil
}

func (i *Instance) Queue(id gpu.DeviceID, family, index int) (gpu.QueueID, error) {
	device, err := i.device(id)
	if err != nil {
		return 0, err
	}

	queue := device.device.GetQueue(family, index)
	if queue == nil {
		return 0, errors.Newf("device has no queue %d in family %d", index, family)
	}
	for existing, known := range device.queues {
		if known.Handle() == queue.Handle() {
			return gpu.QueueID(existing), nil
		}
	}
	device.queues = append(device.queues, queue)
	return gpu.QueueID(len(device.queues) - 1), nil
}

func (i *Instance) WaitIdle(id gpu.DeviceID) error {
	device, err := i.device(id)
	if err != nil {
		return err
	}
	_, err = device.device.WaitIdle()
	return err
}

func (i *Instance) DestroyImageView(id gpu.DeviceID, view gpu.ImageViewID) {
	device, err := i.device(id)
	if err != nil || int(view) < 0 || int(view) >= len(device.views) || device.views[view] == nil {
		return
	}
	device.views[view].Destroy(nil)
	device.views[view] = nil
}

func (i *Instance) DestroySwapchain(id gpu.DeviceID, swapchainID gpu.SwapchainID) {
	device, err := i.device(id)
	if err != nil {
		return
	}
	swapchain, err := device.swapchain(swapchainID)
	if err != nil {
		return
	}
	swapchain.Destroy(nil)
	device.swapchainSlots[swapchainID] = nil
}

func (i *Instance) DestroyDevice(id gpu.DeviceID) {
	device, err := i.device(id)
	if err != nil {
		return
	}
	device.device.Destroy(nil)
	i.devices[id] = nil
}
