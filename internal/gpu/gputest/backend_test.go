package gputest_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"

	"github.com/hellotriangle/vkdevice/internal/gpu"
	"github.com/hellotriangle/vkdevice/internal/gpu/gputest"
)

func TestBackendCallLog(t *testing.T) {
	c := qt.New(t)

	backend := &gputest.Backend{
		Cards: []*gputest.Adapter{{}},
		Fail:  map[string]error{"AdapterFeatures": errors.New("lost")},
	}

	_, err := backend.Adapters()
	c.Assert(err, qt.IsNil)
	_, err = backend.SurfaceCapabilities(0, 2)
	c.Assert(err, qt.IsNil)
	_, err = backend.AdapterFeatures(gpu.AdapterID(0))
	c.Assert(err, qt.ErrorMatches, "lost")
	backend.DestroyImageView(0, 1)

	c.Assert(backend.Calls, qt.DeepEquals, []string{
		"Adapters",
		"SurfaceCapabilities[0 2]",
		"AdapterFeatures[0]",
		"DestroyImageView[0 1]",
	})
	c.Assert(backend.CallCount("Adapter"), qt.Equals, 2)
}
