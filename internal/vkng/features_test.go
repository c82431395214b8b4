package vkng

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

func TestFeatureNames(t *testing.T) {
	c := qt.New(t)

	names := FeatureNames(&core1_0.PhysicalDeviceFeatures{
		TessellationShader: true,
		SamplerAnisotropy:  true,
	})
	c.Assert(names.Sorted(), qt.DeepEquals, []string{"samplerAnisotropy", "tessellationShader"})

	c.Assert(FeatureNames(nil), qt.HasLen, 0)
	c.Assert(FeatureNames(&core1_0.PhysicalDeviceFeatures{}), qt.HasLen, 0)
}

func TestFeaturesFromNames(t *testing.T) {
	c := qt.New(t)

	features, err := FeaturesFromNames(gpu.NewNameSet("tessellationShader"))
	c.Assert(err, qt.IsNil)
	c.Assert(features.TessellationShader, qt.IsTrue)
	c.Assert(features.SamplerAnisotropy, qt.IsFalse)
	c.Assert(FeatureNames(features).Sorted(), qt.DeepEquals, []string{"tessellationShader"})

	features, err = FeaturesFromNames(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(FeatureNames(features), qt.HasLen, 0)

	_, err = FeaturesFromNames(gpu.NewNameSet("warpDrive", "tessellationShader", "TessellationShader"))
	c.Assert(err, qt.ErrorMatches, "unknown device features: TessellationShader, warpDrive")
}
