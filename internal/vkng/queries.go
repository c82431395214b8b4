package vkng

import (
	"github.com/vkngwrapper/extensions/khr_surface"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Adapters enumerates the physical devices. Each call replaces the arena, so
// ids from an earlier call must not be reused.
func (i *Instance) Adapters() ([]gpu.AdapterID, error) {
	physicalDevices, _, err := i.instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}
	i.adapters = physicalDevices

	ids := make([]gpu.AdapterID, len(physicalDevices))
	for idx := range physicalDevices {
		ids[idx] = gpu.AdapterID(idx)
	}
	return ids, nil
}

func (i *Instance) AdapterProperties(id gpu.AdapterID) (gpu.AdapterProperties, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return gpu.AdapterProperties{}, err
	}

	properties, err := adapter.Properties()
	if err != nil {
		return gpu.AdapterProperties{}, err
	}

	return gpu.AdapterProperties{
		Name:       properties.DriverName,
		ID:         properties.DeviceID,
		Type:       properties.DriverType,
		APIVersion: properties.APIVersion,
	}, nil
}

func (i *Instance) AdapterFeatures(id gpu.AdapterID) (gpu.NameSet, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}
	return FeatureNames(adapter.Features()), nil
}

func (i *Instance) AdapterMemory(id gpu.AdapterID) (gpu.MemoryLayout, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return gpu.MemoryLayout{}, err
	}

	memory := adapter.MemoryProperties()
	layout := gpu.MemoryLayout{
		TypeCount: len(memory.MemoryTypes),
		HeapCount: len(memory.MemoryHeaps),
	}
	for _, heap := range memory.MemoryHeaps {
		layout.HeapBytes += int(heap.Size)
	}
	return layout, nil
}

func (i *Instance) QueueFamilies(id gpu.AdapterID) ([]gpu.QueueFamily, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}

	properties := adapter.QueueFamilyProperties()
	families := make([]gpu.QueueFamily, 0, len(properties))
	for index, family := range properties {
		families = append(families, gpu.QueueFamily{
			Index:      index,
			Flags:      family.QueueFlags,
			QueueCount: int(family.QueueCount),
		})
	}
	return families, nil
}

func (i *Instance) DeviceExtensions(id gpu.AdapterID) (gpu.NameSet, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}

	extensions, _, err := adapter.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}

	set := make(gpu.NameSet, len(extensions))
	for name := range extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (i *Instance) DeviceLayers(id gpu.AdapterID) (gpu.NameSet, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}

	layers, _, err := adapter.EnumerateDeviceLayerProperties()
	if err != nil {
		return nil, err
	}

	set := make(gpu.NameSet, len(layers))
	for name := range layers {
		set[name] = struct{}{}
	}
	return set, nil
}

func (i *Instance) SurfaceCapabilities(id gpu.AdapterID, surfaceID gpu.SurfaceID) (gpu.SurfaceCapabilities, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	surface, err := i.surface(surfaceID)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}

	capabilities, _, err := surface.PhysicalDeviceSurfaceCapabilities(adapter)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}

	return gpu.SurfaceCapabilities{
		MinImageCount:    capabilities.MinImageCount,
		MaxImageCount:    capabilities.MaxImageCount,
		CurrentExtent:    capabilities.CurrentExtent,
		MinImageExtent:   capabilities.MinImageExtent,
		MaxImageExtent:   capabilities.MaxImageExtent,
		CurrentTransform: capabilities.CurrentTransform,
	}, nil
}

func (i *Instance) SurfaceFormats(id gpu.AdapterID, surfaceID gpu.SurfaceID) ([]khr_surface.SurfaceFormat, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}
	surface, err := i.surface(surfaceID)
	if err != nil {
		return nil, err
	}

	formats, _, err := surface.PhysicalDeviceSurfaceFormats(adapter)
	return formats, err
}

func (i *Instance) SurfacePresentModes(id gpu.AdapterID, surfaceID gpu.SurfaceID) ([]khr_surface.PresentMode, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return nil, err
	}
	surface, err := i.surface(surfaceID)
	if err != nil {
		return nil, err
	}

	modes, _, err := surface.PhysicalDeviceSurfacePresentModes(adapter)
	return modes, err
}

func (i *Instance) SupportsPresentation(id gpu.AdapterID, family int, surfaceID gpu.SurfaceID) (bool, error) {
	adapter, err := i.adapter(id)
	if err != nil {
		return false, err
	}
	surface, err := i.surface(surfaceID)
	if err != nil {
		return false, err
	}

	supported, _, err := surface.PhysicalDeviceSurfaceSupport(adapter, family)
	return supported, err
}
