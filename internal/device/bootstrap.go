package device

import (
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Bootstrap enumerates the adapters of backend, picks the first one able to
// satisfy req and present to surface, and provisions a Device on it.
func Bootstrap(backend gpu.Backend, req *Requirements, surface Surface, log logrus.FieldLogger) (*Device, error) {
	start := hrtime.Now()

	adapters, err := Enumerate(backend, log)
	if err != nil {
		return nil, err
	}
	enumerated := hrtime.Now()

	adapter, support, err := Select(backend, adapters, req, surface.ID(), log)
	if err != nil {
		return nil, err
	}
	selected := hrtime.Now()

	device, err := Provision(backend, req, support, surface, adapter)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"enumerate": enumerated - start,
		"select":    selected - enumerated,
		"provision": hrtime.Since(selected),
	}).Debug("device bootstrap timings")

	log.WithFields(logrus.Fields{
		"adapter":      adapter.Properties().Name,
		"format":       device.Format().Format,
		"color_space":  device.Format().ColorSpace,
		"present_mode": support.BestMode(),
		"extent":       device.Extent(),
		"images":       len(device.Images()),
		"graphics":     device.Families().Graphics,
		"presentation": device.Families().Presentation,
	}).Info("swapchain created")

	return device, nil
}
