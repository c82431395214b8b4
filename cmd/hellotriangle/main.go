package main

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/hellotriangle/vkdevice/internal/config"
	"github.com/hellotriangle/vkdevice/internal/device"
	"github.com/hellotriangle/vkdevice/internal/gpu"
	"github.com/hellotriangle/vkdevice/internal/presentation"
	"github.com/hellotriangle/vkdevice/internal/vkng"
)

func init() {
	// SDL and the window system expect every call on the main thread.
	runtime.LockOSThread()
}

// boundSurface pairs a window surface with its id on the instance.
type boundSurface struct {
	*presentation.Surface
	id gpu.SurfaceID
}

func (s boundSurface) ID() gpu.SurfaceID { return s.id }

type HelloTriangleApplication struct {
	cfg *config.Config
	log *logrus.Logger

	presentation *presentation.Context
	loader       *vkng.Loader
	instance     *vkng.Instance
	surface      *presentation.Surface
	surfaceID    gpu.SurfaceID

	device *device.Device
}

func (app *HelloTriangleApplication) Run() error {
	return app.run(app.initWindow, app.initVulkan, app.mainLoop)
}

// run executes phases in order and always cleans up, including after a
// partially completed phase.
func (app *HelloTriangleApplication) run(phases ...func() error) error {
	defer app.cleanup()

	for _, phase := range phases {
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}

func (app *HelloTriangleApplication) initWindow() error {
	var err error
	app.presentation, err = presentation.NewContext(presentation.WindowOptions{
		Title:  app.cfg.Window.Title,
		Width:  app.cfg.Window.Width,
		Height: app.cfg.Window.Height,
	})
	if err != nil {
		return err
	}

	app.loader, err = vkng.NewLoader(app.presentation.ProcAddr())
	return err
}

func (app *HelloTriangleApplication) initVulkan() error {
	if err := app.loader.LogAvailable(app.log); err != nil {
		return err
	}

	req, err := device.NewRequirements(app.loader, app.presentation, device.RequirementOptions{
		WantValidation:   app.cfg.WantValidation(),
		Features:         app.cfg.RequiredFeatures,
		DeviceExtensions: app.cfg.DeviceExtensions,
	})
	if err != nil {
		return err
	}

	app.instance, err = app.loader.CreateInstance(vkng.InstanceOptions{
		ApplicationName: app.cfg.Window.Title,
		Layers:          req.Layers(),
		Extensions:      req.InstanceExtensions(),
		Validation:      req.WantValidation(),
	}, app.log)
	if err != nil {
		return err
	}

	app.surface, err = app.presentation.CreateSurface(app.instance.Handle())
	if err != nil {
		return err
	}
	app.surfaceID = app.instance.AttachSurface(app.surface.Handle())

	app.device, err = device.Bootstrap(app.instance, req, boundSurface{Surface: app.surface, id: app.surfaceID}, app.log)
	return err
}

func (app *HelloTriangleApplication) mainLoop() error {
	app.presentation.WaitForQuit()
	return nil
}

// teardownStep releases one Vulkan object. A failed step leaves the object
// alive, so nothing it depends on may be released after it.
type teardownStep struct {
	name    string
	release func() error
}

// teardown runs steps in order and stops at the first failure. always runs
// in either case.
func teardown(log logrus.FieldLogger, steps []teardownStep, always func()) {
	defer always()

	for _, step := range steps {
		if err := step.release(); err != nil {
			log.WithError(err).WithField("step", step.name).Error("teardown stopped, leaking remaining Vulkan objects")
			return
		}
	}
}

func (app *HelloTriangleApplication) cleanup() {
	var steps []teardownStep
	if app.device != nil {
		steps = append(steps, teardownStep{"device", app.device.Destroy})
	}
	if app.surface != nil {
		steps = append(steps, teardownStep{"surface", func() error {
			app.instance.DetachSurface(app.surfaceID)
			app.surface.Destroy()
			return nil
		}})
	}
	if app.instance != nil {
		steps = append(steps, teardownStep{"instance", func() error {
			app.instance.Destroy()
			return nil
		}})
	}

	teardown(app.log, steps, func() {
		if app.presentation != nil {
			app.presentation.Close()
		}
	})
}

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		gpu.Fatal(logrus.StandardLogger(), err)
	}

	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		gpu.Fatal(logrus.StandardLogger(), err)
	}

	app := &HelloTriangleApplication{cfg: cfg, log: log}
	if err := app.Run(); err != nil {
		gpu.Fatal(log, err)
	}
}
