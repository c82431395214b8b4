package device

import (
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
	"golang.org/x/exp/slices"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

const ValidationLayerName = "VK_LAYER_KHRONOS_validation"

// PresentationNeeds is implemented by the windowing side, which declares the
// extensions it relies on.
type PresentationNeeds interface {
	RequiredInstanceExtensions() []string
	RequiredDeviceExtensions() []string
}

type RequirementOptions struct {
	WantValidation   bool
	Features         []string
	DeviceExtensions []string
}

// Requirements is the application's fixed list of needs from the instance and
// from the device. It does not change after NewRequirements returns.
type Requirements struct {
	wantValidation     bool
	layers             []string
	instanceExtensions []string
	deviceExtensions   []string
	features           []string
}

func NewRequirements(host gpu.Host, needs PresentationNeeds, opts RequirementOptions) (*Requirements, error) {
	layers, err := requiredLayers(host, opts.WantValidation)
	if err != nil {
		return nil, err
	}

	instanceExtensions, err := requiredInstanceExtensions(host, needs, opts.WantValidation)
	if err != nil {
		return nil, err
	}

	return &Requirements{
		wantValidation:     opts.WantValidation,
		layers:             layers,
		instanceExtensions: instanceExtensions,
		deviceExtensions:   appendUnique(appendUnique(nil, needs.RequiredDeviceExtensions()...), opts.DeviceExtensions...),
		features:           appendUnique(nil, opts.Features...),
	}, nil
}

func requiredLayers(host gpu.Host, wantValidation bool) ([]string, error) {
	var layers []string
	if !wantValidation {
		return layers, nil
	}

	available, err := host.InstanceLayers()
	if err != nil {
		return nil, gpu.CallFailed("vkEnumerateInstanceLayerProperties", err)
	}
	if !available.Contains(ValidationLayerName) {
		return nil, gpu.Unmet(ValidationLayerName, "validation layer required but not available")
	}
	return append(layers, ValidationLayerName), nil
}

func requiredInstanceExtensions(host gpu.Host, needs PresentationNeeds, wantValidation bool) ([]string, error) {
	extensions := appendUnique(nil, needs.RequiredInstanceExtensions()...)

	if wantValidation {
		available, err := host.InstanceExtensions()
		if err != nil {
			return nil, gpu.CallFailed("vkEnumerateInstanceExtensionProperties", err)
		}
		if !available.Contains(ext_debug_utils.ExtensionName) {
			return nil, gpu.Unmet(ext_debug_utils.ExtensionName, "validation layer required but debugging extension not available")
		}
		extensions = appendUnique(extensions, ext_debug_utils.ExtensionName)
	}

	// Portability drivers only enumerate their adapters when this is enabled.
	return appendUnique(extensions, khr_portability_enumeration.ExtensionName), nil
}

func appendUnique(list []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(list, name) {
			list = append(list, name)
		}
	}
	return list
}

func (r *Requirements) WantValidation() bool { return r.wantValidation }

func (r *Requirements) Layers() []string { return slices.Clone(r.layers) }

func (r *Requirements) InstanceExtensions() []string { return slices.Clone(r.instanceExtensions) }

func (r *Requirements) DeviceExtensions() []string { return slices.Clone(r.deviceExtensions) }

func (r *Requirements) Features() []string { return slices.Clone(r.features) }
