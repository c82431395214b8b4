//go:build release

package config

const buildWantsValidation = false
