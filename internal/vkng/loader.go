// Package vkng implements the gpu interfaces over vkngwrapper.
package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
	"golang.org/x/exp/slices"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// Loader answers host-level queries and creates instances.
type Loader struct {
	loader core.Loader
}

var _ gpu.Host = (*Loader)(nil)

// NewLoader builds a loader from a vkGetInstanceProcAddr pointer, such as the
// one the windowing library exposes.
func NewLoader(procAddr unsafe.Pointer) (*Loader, error) {
	loader, err := core.CreateLoaderFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create vulkan loader")
	}
	return &Loader{loader: loader}, nil
}

func (l *Loader) InstanceLayers() (gpu.NameSet, error) {
	layers, _, err := l.loader.AvailableLayers()
	if err != nil {
		return nil, err
	}

	set := make(gpu.NameSet, len(layers))
	for name := range layers {
		set[name] = struct{}{}
	}
	return set, nil
}

func (l *Loader) InstanceExtensions() (gpu.NameSet, error) {
	extensions, _, err := l.loader.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	set := make(gpu.NameSet, len(extensions))
	for name := range extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

// LogAvailable lists the host's instance layers and extensions at debug
// level.
func (l *Loader) LogAvailable(log logrus.FieldLogger) error {
	layers, err := l.InstanceLayers()
	if err != nil {
		return gpu.CallFailed("vkEnumerateInstanceLayerProperties", err)
	}
	extensions, err := l.InstanceExtensions()
	if err != nil {
		return gpu.CallFailed("vkEnumerateInstanceExtensionProperties", err)
	}

	log.Debugf("%d instance layers:", len(layers))
	for _, name := range layers.Sorted() {
		log.Debugf("  %s", name)
	}
	log.Debugf("%d instance extensions:", len(extensions))
	for _, name := range extensions.Sorted() {
		log.Debugf("  %s", name)
	}
	return nil
}

type InstanceOptions struct {
	ApplicationName string
	Layers          []string
	Extensions      []string
	// Validation installs a debug messenger that forwards validation
	// messages to the instance's logger.
	Validation bool
}

// instanceCreateInfo requests Vulkan 1.1 and enumerates portability
// implementations when their extension is enabled.
func instanceCreateInfo(opts InstanceOptions, messages *messageLogger) core1_0.InstanceCreateInfo {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:       opts.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            "No Engine",
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_1,
		EnabledLayerNames:     slices.Clone(opts.Layers),
		EnabledExtensionNames: slices.Clone(opts.Extensions),
	}

	if slices.Contains(opts.Extensions, khr_portability_enumeration.ExtensionName) {
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if opts.Validation {
		// Chained so that instance creation and destruction are validated too.
		info.Next = messages.createInfo()
	}
	return info
}

func (l *Loader) CreateInstance(opts InstanceOptions, log logrus.FieldLogger) (*Instance, error) {
	messages := &messageLogger{log: log}
	info := instanceCreateInfo(opts, messages)

	instance, _, err := l.loader.CreateInstance(nil, info)
	if err != nil {
		return nil, gpu.CallFailed("vkCreateInstance", err)
	}

	i := &Instance{instance: instance, log: log}
	if opts.Validation {
		if err := i.installMessenger(messages); err != nil {
			instance.Destroy(nil)
			return nil, err
		}
	}
	return i, nil
}
