// Package gpu is the boundary between device bootstrap logic and the graphics
// backend. Everything the bootstrap needs to know about adapters and surfaces,
// and every object it creates, goes through the interfaces declared here.
//
// Handles are indexes into arenas owned by the backend. A handle never owns
// the object it names; the backend (or the device built on top of it) does.
package gpu

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

type (
	AdapterID   int
	SurfaceID   int
	DeviceID    int
	SwapchainID int
	ImageID     int
	ImageViewID int
	QueueID     int
)

// Host answers instance-level questions that must be settled before an
// instance exists.
type Host interface {
	InstanceLayers() (NameSet, error)
	InstanceExtensions() (NameSet, error)
}

// AdapterQuerier enumerates physical adapters and reports their capabilities.
type AdapterQuerier interface {
	Adapters() ([]AdapterID, error)
	AdapterProperties(adapter AdapterID) (AdapterProperties, error)
	AdapterFeatures(adapter AdapterID) (NameSet, error)
	AdapterMemory(adapter AdapterID) (MemoryLayout, error)
	QueueFamilies(adapter AdapterID) ([]QueueFamily, error)
	DeviceExtensions(adapter AdapterID) (NameSet, error)
	DeviceLayers(adapter AdapterID) (NameSet, error)
}

// SurfaceQuerier reports how an adapter can present to a surface.
type SurfaceQuerier interface {
	SurfaceCapabilities(adapter AdapterID, surface SurfaceID) (SurfaceCapabilities, error)
	SurfaceFormats(adapter AdapterID, surface SurfaceID) ([]khr_surface.SurfaceFormat, error)
	SurfacePresentModes(adapter AdapterID, surface SurfaceID) ([]khr_surface.PresentMode, error)
	SupportsPresentation(adapter AdapterID, family int, surface SurfaceID) (bool, error)
}

// DeviceFactory creates and releases the objects owned by a logical device.
//
// Destroy calls must happen in reverse creation order: image views, then
// swapchains, then the device.
type DeviceFactory interface {
	CreateDevice(adapter AdapterID, info DeviceCreateInfo) (DeviceID, error)
	CreateSwapchain(device DeviceID, info SwapchainCreateInfo) (SwapchainID, error)
	SwapchainImages(device DeviceID, swapchain SwapchainID) ([]ImageID, error)
	CreateImageView(device DeviceID, image ImageID, format core1_0.Format) (ImageViewID, error)
	Queue(device DeviceID, family, index int) (QueueID, error)

	WaitIdle(device DeviceID) error
	DestroyImageView(device DeviceID, view ImageViewID)
	DestroySwapchain(device DeviceID, swapchain SwapchainID)
	DestroyDevice(device DeviceID)
}

// Backend is the full capability query and provisioning surface.
type Backend interface {
	AdapterQuerier
	SurfaceQuerier
	DeviceFactory
}
