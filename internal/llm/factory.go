package llm

import (
	"fmt"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/port"
)

// ProviderFactory is a function that creates a Generator from the LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.Generator, error)

// registry of generator provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a generator provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a Generator from the LLM config using the registered factory.
func NewGenerator(cfg *config.LLMConfig) (port.Generator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
