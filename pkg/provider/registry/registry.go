// Package registry wires the concrete provider backends into a
// provider.Detector. It exists separately from pkg/provider to avoid an
// import cycle: pkg/provider/ollama (etc.) import pkg/provider for the
// shared types, so pkg/provider itself cannot import them back.
package registry

import (
	"time"

	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/provider/hftgi"
	"github.com/papercompute/loom/pkg/provider/ollama"
	"github.com/papercompute/loom/pkg/provider/openaicompat"
)

// Factories returns the default factory map covering every detectable
// provider type.
func Factories() map[provider.Type]provider.Factory {
	return map[provider.Type]provider.Factory{
		provider.TypeOllama:   ollama.New,
		provider.TypeLMStudio: openaicompat.NewLMStudio,
		provider.TypeHFTGI:    hftgi.New,
		provider.TypeVLLM:     openaicompat.NewVLLM,
	}
}

// NewDetector builds a provider.Detector pre-populated with every default
// backend.
func NewDetector() *provider.Detector {
	return provider.NewDetector(Factories())
}

// New builds a provider.Provider of the given type bound to baseURL, for
// explicit (non-detected) configuration, e.g. from Settings.
func New(t provider.Type, baseURL string, timeout time.Duration) (provider.Provider, error) {
	factory, ok := Factories()[t]
	if !ok {
		return nil, unsupportedTypeError(t)
	}
	return factory(baseURL, timeout), nil
}

type unsupportedTypeError provider.Type

func (e unsupportedTypeError) Error() string {
	return "unsupported provider type: " + string(e)
}
