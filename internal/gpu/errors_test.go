package gpu_test

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

func TestCallFailed(t *testing.T) {
	c := qt.New(t)

	err := gpu.CallFailed("vkCreateDevice", errors.New("VK_ERROR_INITIALIZATION_FAILED"))

	c.Assert(err, qt.ErrorMatches, `vkCreateDevice\(\): VK_ERROR_INITIALIZATION_FAILED`)
	c.Assert(errors.Is(err, gpu.ErrBackendCallFailed), qt.IsTrue)
	c.Assert(errors.Is(err, gpu.ErrEnvironmentUnmet), qt.IsFalse)
	c.Assert(gpu.Kind(err), qt.Equals, "backend_call_failed")

	var opErr *gpu.OpError
	c.Assert(errors.As(err, &opErr), qt.IsTrue)
	c.Assert(opErr.Op, qt.Equals, "vkCreateDevice()")
}

func TestUnmet(t *testing.T) {
	c := qt.New(t)

	err := gpu.Unmet("VK_LAYER_KHRONOS_validation", "validation layer required but not available")

	c.Assert(err, qt.ErrorMatches, "VK_LAYER_KHRONOS_validation: validation layer required but not available")
	c.Assert(errors.Is(err, gpu.ErrEnvironmentUnmet), qt.IsTrue)
	c.Assert(gpu.Kind(err), qt.Equals, "environment_unmet")
	c.Assert(gpu.Kind(errors.New("plain")), qt.Equals, "unknown")
}

func TestFatal(t *testing.T) {
	c := qt.New(t)

	var out bytes.Buffer
	exitCode := -1
	log := logrus.New()
	log.Out = &out
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	log.ExitFunc = func(code int) { exitCode = code }

	gpu.Fatal(log, errors.Wrap(gpu.CallFailed("vkCreateSwapchainKHR", errors.New("VK_ERROR_SURFACE_LOST_KHR")), "provisioning"))

	c.Assert(exitCode, qt.Equals, 1)
	c.Assert(out.String(), qt.Contains, "level=fatal")
	c.Assert(out.String(), qt.Contains, "kind=backend_call_failed")
	c.Assert(out.String(), qt.Contains, `operation="vkCreateSwapchainKHR()"`)
	c.Assert(out.String(), qt.Contains, "VK_ERROR_SURFACE_LOST_KHR")
}
