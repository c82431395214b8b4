package vkng

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

var featuresType = reflect.TypeOf(core1_0.PhysicalDeviceFeatures{})

// featureName maps a PhysicalDeviceFeatures field to the Vulkan member name,
// e.g. TessellationShader to tessellationShader.
func featureName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToLower(r)) + field[size:]
}

// FeatureNames lists the features set in features by their Vulkan names.
func FeatureNames(features *core1_0.PhysicalDeviceFeatures) gpu.NameSet {
	set := gpu.NameSet{}
	if features == nil {
		return set
	}

	value := reflect.ValueOf(features).Elem()
	for idx := 0; idx < featuresType.NumField(); idx++ {
		field := featuresType.Field(idx)
		if field.Type.Kind() == reflect.Bool && value.Field(idx).Bool() {
			set[featureName(field.Name)] = struct{}{}
		}
	}
	return set
}

// FeaturesFromNames builds the feature struct enabling every named feature.
func FeaturesFromNames(names gpu.NameSet) (*core1_0.PhysicalDeviceFeatures, error) {
	features := &core1_0.PhysicalDeviceFeatures{}
	value := reflect.ValueOf(features).Elem()

	var unknown []string
	for _, name := range names.Sorted() {
		field, ok := featuresType.FieldByNameFunc(func(field string) bool {
			return featureName(field) == name
		})
		if !ok || field.Type.Kind() != reflect.Bool {
			unknown = append(unknown, name)
			continue
		}
		value.FieldByIndex(field.Index).SetBool(true)
	}

	if len(unknown) > 0 {
		return nil, errors.Newf("unknown device features: %s", strings.Join(unknown, ", "))
	}
	return features, nil
}
