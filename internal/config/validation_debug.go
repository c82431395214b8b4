//go:build !release

package config

const buildWantsValidation = true
