package device

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Adapter describes one physical device's capabilities.
//
// It is only valid while the instance that enumerated it is alive, and can be
// discarded once a Device has been provisioned from it.
type Adapter struct {
	querier gpu.AdapterQuerier
	id      gpu.AdapterID

	properties gpu.AdapterProperties
	features   gpu.NameSet
	memory     gpu.MemoryLayout
	families   []gpu.QueueFamily

	// Ascending. Empty on adapters without graphics queues.
	graphicsFamilies []int

	// Fetched on first use.
	extensions gpu.NameSet
	layers     gpu.NameSet
}

func NewAdapter(querier gpu.AdapterQuerier, id gpu.AdapterID) (*Adapter, error) {
	properties, err := querier.AdapterProperties(id)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceProperties", err)
	}

	features, err := querier.AdapterFeatures(id)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceFeatures", err)
	}

	memory, err := querier.AdapterMemory(id)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceMemoryProperties", err)
	}

	families, err := querier.QueueFamilies(id)
	if err != nil {
		return nil, gpu.CallFailed("vkGetPhysicalDeviceQueueFamilyProperties", err)
	}

	return &Adapter{
		querier:          querier,
		id:               id,
		properties:       properties,
		features:         features,
		memory:           memory,
		families:         families,
		graphicsFamilies: graphicsFamilyIndices(families),
	}, nil
}

func graphicsFamilyIndices(families []gpu.QueueFamily) []int {
	var indices []int
	for _, family := range families {
		if family.SupportsGraphics() {
			indices = append(indices, family.Index)
		}
	}
	slices.Sort(indices)
	return indices
}

// Enumerate describes every adapter the backend exposes, in backend order.
func Enumerate(querier gpu.AdapterQuerier, log logrus.FieldLogger) ([]*Adapter, error) {
	ids, err := querier.Adapters()
	if err != nil {
		return nil, gpu.CallFailed("vkEnumeratePhysicalDevices", err)
	}

	adapters := make([]*Adapter, 0, len(ids))
	for _, id := range ids {
		adapter, err := NewAdapter(querier, id)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	log.Infof("%d physical devices:", len(adapters))
	for _, adapter := range adapters {
		log.WithFields(logrus.Fields{
			"adapter":        adapter.id,
			"queue_families": len(adapter.families),
			"memory_heaps":   adapter.memory.HeapCount,
		}).Infof("  %s", adapter.properties)
	}
	return adapters, nil
}

func (a *Adapter) ID() gpu.AdapterID { return a.id }

func (a *Adapter) Properties() gpu.AdapterProperties { return a.properties }

func (a *Adapter) Memory() gpu.MemoryLayout { return a.memory }

func (a *Adapter) QueueFamilies() []gpu.QueueFamily { return slices.Clone(a.families) }

func (a *Adapter) QueueFamilyCount() int { return len(a.families) }

func (a *Adapter) GraphicsFamilyIndices() []int { return slices.Clone(a.graphicsFamilies) }

func (a *Adapter) String() string { return a.properties.String() }

// HasFeatures reports whether every named feature is supported.
func (a *Adapter) HasFeatures(features []string) bool {
	return a.features.ContainsAll(features)
}

func (a *Adapter) HasLayers(layers []string) (bool, error) {
	if a.layers == nil {
		available, err := a.querier.DeviceLayers(a.id)
		if err != nil {
			return false, gpu.CallFailed("vkEnumerateDeviceLayerProperties", err)
		}
		a.layers = available
	}
	return a.layers.ContainsAll(layers), nil
}

func (a *Adapter) HasExtension(extension string) (bool, error) {
	return a.HasExtensions([]string{extension})
}

func (a *Adapter) HasExtensions(extensions []string) (bool, error) {
	if a.extensions == nil {
		available, err := a.querier.DeviceExtensions(a.id)
		if err != nil {
			return false, gpu.CallFailed("vkEnumerateDeviceExtensionProperties", err)
		}
		a.extensions = available
	}
	return a.extensions.ContainsAll(extensions), nil
}
