// Package gputest provides a scripted gpu.Backend for tests.
package gputest

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Surface describes what an adapter reports for every surface.
type Surface struct {
	Capabilities gpu.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
	// PresentFamilies lists the queue families able to present.
	PresentFamilies []int
}

type Adapter struct {
	Properties gpu.AdapterProperties
	Features   []string
	Memory     gpu.MemoryLayout
	// Families are reported with Index set to their position.
	Families   []gpu.QueueFamily
	Extensions []string
	Layers     []string
	Surface    Surface
}

type Device struct {
	Adapter    gpu.AdapterID
	Info       gpu.DeviceCreateInfo
	Swapchains []gpu.SwapchainCreateInfo
	Destroyed  bool
}

// Backend serves scripted adapters and records every call it receives.
//
// Errors in Fail are returned by the method with the same name.
type Backend struct {
	Cards   []*Adapter
	Fail    map[string]error
	Devices []*Device
	// Calls holds one entry per query or provisioning call, in order.
	Calls []string

	images int
	views  int
}

var _ gpu.Backend = (*Backend)(nil)

func (b *Backend) record(method string, args ...interface{}) error {
	call := method
	if len(args) > 0 {
		call += fmt.Sprintf("%v", args)
	}
	b.Calls = append(b.Calls, call)
	if err, ok := b.Fail[method]; ok {
		return err
	}
	return nil
}

func (b *Backend) card(adapter gpu.AdapterID) (*Adapter, error) {
	if int(adapter) < 0 || int(adapter) >= len(b.Cards) {
		return nil, errors.Newf("unknown adapter %d", adapter)
	}
	return b.Cards[adapter], nil
}

func (b *Backend) device(device gpu.DeviceID) (*Device, error) {
	if int(device) < 0 || int(device) >= len(b.Devices) || b.Devices[device].Destroyed {
		return nil, errors.Newf("unknown device %d", device)
	}
	return b.Devices[device], nil
}

// CallCount returns how many recorded calls start with prefix.
func (b *Backend) CallCount(prefix string) int {
	count := 0
	for _, call := range b.Calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			count++
		}
	}
	return count
}

func (b *Backend) Adapters() ([]gpu.AdapterID, error) {
	if err := b.record("Adapters"); err != nil {
		return nil, err
	}
	ids := make([]gpu.AdapterID, len(b.Cards))
	for i := range b.Cards {
		ids[i] = gpu.AdapterID(i)
	}
	return ids, nil
}

func (b *Backend) AdapterProperties(adapter gpu.AdapterID) (gpu.AdapterProperties, error) {
	if err := b.record("AdapterProperties", adapter); err != nil {
		return gpu.AdapterProperties{}, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return gpu.AdapterProperties{}, err
	}
	return card.Properties, nil
}

func (b *Backend) AdapterFeatures(adapter gpu.AdapterID) (gpu.NameSet, error) {
	if err := b.record("AdapterFeatures", adapter); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	return gpu.NewNameSet(card.Features...), nil
}

func (b *Backend) AdapterMemory(adapter gpu.AdapterID) (gpu.MemoryLayout, error) {
	if err := b.record("AdapterMemory", adapter); err != nil {
		return gpu.MemoryLayout{}, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return gpu.MemoryLayout{}, err
	}
	return card.Memory, nil
}

func (b *Backend) QueueFamilies(adapter gpu.AdapterID) ([]gpu.QueueFamily, error) {
	if err := b.record("QueueFamilies", adapter); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	families := make([]gpu.QueueFamily, len(card.Families))
	for i, family := range card.Families {
		family.Index = i
		families[i] = family
	}
	return families, nil
}

func (b *Backend) DeviceExtensions(adapter gpu.AdapterID) (gpu.NameSet, error) {
	if err := b.record("DeviceExtensions", adapter); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	return gpu.NewNameSet(card.Extensions...), nil
}

func (b *Backend) DeviceLayers(adapter gpu.AdapterID) (gpu.NameSet, error) {
	if err := b.record("DeviceLayers", adapter); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	return gpu.NewNameSet(card.Layers...), nil
}

func (b *Backend) SurfaceCapabilities(adapter gpu.AdapterID, surface gpu.SurfaceID) (gpu.SurfaceCapabilities, error) {
	if err := b.record("SurfaceCapabilities", adapter, surface); err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	return card.Surface.Capabilities, nil
}

func (b *Backend) SurfaceFormats(adapter gpu.AdapterID, surface gpu.SurfaceID) ([]khr_surface.SurfaceFormat, error) {
	if err := b.record("SurfaceFormats", adapter, surface); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	return card.Surface.Formats, nil
}

func (b *Backend) SurfacePresentModes(adapter gpu.AdapterID, surface gpu.SurfaceID) ([]khr_surface.PresentMode, error) {
	if err := b.record("SurfacePresentModes", adapter, surface); err != nil {
		return nil, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return nil, err
	}
	return card.Surface.PresentModes, nil
}

func (b *Backend) SupportsPresentation(adapter gpu.AdapterID, family int, surface gpu.SurfaceID) (bool, error) {
	if err := b.record("SupportsPresentation", adapter, family, surface); err != nil {
		return false, err
	}
	card, err := b.card(adapter)
	if err != nil {
		return false, err
	}
	for _, present := range card.Surface.PresentFamilies {
		if present == family {
			return true, nil
		}
	}
	return false, nil
}

func (b *Backend) CreateDevice(adapter gpu.AdapterID, info gpu.DeviceCreateInfo) (gpu.DeviceID, error) {
	if err := b.record("CreateDevice", adapter); err != nil {
		return 0, err
	}
	if _, err := b.card(adapter); err != nil {
		return 0, err
	}
	b.Devices = append(b.Devices, &Device{Adapter: adapter, Info: info})
	return gpu.DeviceID(len(b.Devices) - 1), nil
}

func (b *Backend) CreateSwapchain(device gpu.DeviceID, info gpu.SwapchainCreateInfo) (gpu.SwapchainID, error) {
	if err := b.record("CreateSwapchain", device); err != nil {
		return 0, err
	}
	dev, err := b.device(device)
	if err != nil {
		return 0, err
	}
	dev.Swapchains = append(dev.Swapchains, info)
	return gpu.SwapchainID(len(dev.Swapchains) - 1), nil
}

// SwapchainImages returns as many images as the swapchain's minimum count.
func (b *Backend) SwapchainImages(device gpu.DeviceID, swapchain gpu.SwapchainID) ([]gpu.ImageID, error) {
	if err := b.record("SwapchainImages", device, swapchain); err != nil {
		return nil, err
	}
	dev, err := b.device(device)
	if err != nil {
		return nil, err
	}
	if int(swapchain) >= len(dev.Swapchains) {
		return nil, errors.Newf("unknown swapchain %d", swapchain)
	}

	images := make([]gpu.ImageID, dev.Swapchains[swapchain].MinImageCount)
	for i := range images {
		images[i] = gpu.ImageID(b.images)
		b.images++
	}
	return images, nil
}

func (b *Backend) CreateImageView(device gpu.DeviceID, image gpu.ImageID, format core1_0.Format) (gpu.ImageViewID, error) {
	if err := b.record("CreateImageView", device, image); err != nil {
		return 0, err
	}
	if _, err := b.device(device); err != nil {
		return 0, err
	}
	view := gpu.ImageViewID(b.views)
	b.views++
	return view, nil
}

// Queue returns family*16+index, so equal families yield equal queues.
func (b *Backend) Queue(device gpu.DeviceID, family, index int) (gpu.QueueID, error) {
	if err := b.record("Queue", device, family, index); err != nil {
		return 0, err
	}
	if _, err := b.device(device); err != nil {
		return 0, err
	}
	return gpu.QueueID(family*16 + index), nil
}

func (b *Backend) WaitIdle(device gpu.DeviceID) error {
	return b.record("WaitIdle", device)
}

func (b *Backend) DestroyImageView(device gpu.DeviceID, view gpu.ImageViewID) {
	_ = b.record("DestroyImageView", device, view)
}

func (b *Backend) DestroySwapchain(device gpu.DeviceID, swapchain gpu.SwapchainID) {
	_ = b.record("DestroySwapchain", device, swapchain)
}

func (b *Backend) DestroyDevice(device gpu.DeviceID) {
	_ = b.record("DestroyDevice", device)
	if dev, err := b.device(device); err == nil {
		dev.Destroyed = true
	}
}

// Host serves scripted instance layers and extensions.
type Host struct {
	Layers     []string
	Extensions []string
	Err        error
}

var _ gpu.Host = (*Host)(nil)

func (h *Host) InstanceLayers() (gpu.NameSet, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	return gpu.NewNameSet(h.Layers...), nil
}

func (h *Host) InstanceExtensions() (gpu.NameSet, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	return gpu.NewNameSet(h.Extensions...), nil
}
