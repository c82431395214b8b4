package device

import (
	"github.com/sirupsen/logrus"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Select returns the first adapter, in enumeration order, that satisfies req
// and can present to surface. Later adapters are never examined.
func Select(querier gpu.SurfaceQuerier, adapters []*Adapter, req *Requirements, surface gpu.SurfaceID, log logrus.FieldLogger) (*Adapter, *SurfaceSupport, error) {
	layers := req.Layers()
	extensions := req.DeviceExtensions()
	features := req.Features()

	for _, adapter := range adapters {
		adapterLog := log.WithField("adapter", adapter.Properties().Name)

		if !adapter.HasFeatures(features) {
			adapterLog.Debug("rejected: missing required features")
			continue
		}

		hasLayers, err := adapter.HasLayers(layers)
		if err != nil {
			return nil, nil, err
		}
		if !hasLayers {
			adapterLog.Debug("rejected: missing required layers")
			continue
		}

		hasExtensions, err := adapter.HasExtensions(extensions)
		if err != nil {
			return nil, nil, err
		}
		if !hasExtensions {
			adapterLog.Debug("rejected: missing required device extensions")
			continue
		}

		if len(adapter.GraphicsFamilyIndices()) == 0 {
			adapterLog.Debug("rejected: no graphics queue family")
			continue
		}

		support, err := Evaluate(querier, adapter, surface)
		if err != nil {
			return nil, nil, err
		}
		if !support.IsAcceptable() {
			adapterLog.Debug("rejected: cannot present to the surface")
			continue
		}

		adapterLog.Info("selected physical device")
		return adapter, support, nil
	}

	return nil, nil, gpu.Unmet("physical device selection", "no suitable Vulkan device attached")
}
