package pagecollect

import (
	"context"
	"strings"
)

// BackendType identifies the wire shape of an LLM backend.
type BackendType string

// Supported backend types.
const (
	BackendOllama BackendType = "ollama"
	BackendVLLM   BackendType = "vllm"
	BackendCustom BackendType = "custom"
)

// BackendTypes returns all supported backend types.
func BackendTypes() []BackendType {
	return []BackendType{BackendOllama, BackendVLLM, BackendCustom}
}

// Valid reports whether t is a recognized backend type.
func (t BackendType) Valid() bool {
	switch t {
	case BackendOllama, BackendVLLM, BackendCustom:
		return true
	}
	return false
}

// ParseBackendType converts a string into a BackendType.
// Returns EINVALID if the type is not recognized.
func ParseBackendType(s string) (BackendType, error) {
	t := BackendType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Errorf(EINVALID, "Invalid LLM type")
	}
	return t, nil
}

// BackendSettings describes how to reach an LLM backend.
type BackendSettings struct {
	Type      BackendType `json:"type"`
	Host      string      `json:"host"`
	Port      string      `json:"port"`
	Endpoint  string      `json:"endpoint"` // custom backends only
	APIKey    string      `json:"apiKey"`
	ModelName string      `json:"modelName"`
}

// DefaultBackendSettings returns settings for a local Ollama server.
func DefaultBackendSettings() *BackendSettings {
	return &BackendSettings{
		Type:      BackendOllama,
		Host:      "localhost",
		Port:      "11434",
		Endpoint:  "/api/generate",
		APIKey:    "",
		ModelName: "mistral:latest",
	}
}

// Validate returns an error if the settings contain invalid fields.
func (s *BackendSettings) Validate() error {
	if !s.Type.Valid() {
		return Errorf(EINVALID, "Invalid LLM type")
	}
	if s.Host == "" {
		return Errorf(EINVALID, "backend host required")
	}
	return nil
}

// ExtractionStrategy selects how a page's main content is extracted.
type ExtractionStrategy string

// Supported extraction strategies.
const (
	// StrategySmart uses the first main/article element, or the body
	// without navigation regions.
	StrategySmart ExtractionStrategy = "smart"

	// StrategyFull uses the full body text.
	StrategyFull ExtractionStrategy = "full"

	// StrategyReadability uses readability article extraction.
	StrategyReadability ExtractionStrategy = "readability"

	// StrategyTrafilatura uses trafilatura article extraction.
	StrategyTrafilatura ExtractionStrategy = "trafilatura"
)

// Valid reports whether s is a recognized extraction strategy.
func (s ExtractionStrategy) Valid() bool {
	switch s {
	case StrategySmart, StrategyFull, StrategyReadability, StrategyTrafilatura:
		return true
	}
	return false
}

// Default content settings.
const (
	DefaultMaxStoredPages   = 50
	DefaultMaxContentLength = 50000
	DefaultSystemPrompt     = "You are a helpful assistant that analyzes web page content. Provide accurate, concise answers based on the information in the provided pages."
)

// ContentSettings controls how pages are collected and stored.
type ContentSettings struct {
	MaxStoredPages      int                `json:"maxStoredPages"`
	DefaultSystemPrompt string             `json:"defaultSystemPrompt"`
	ExtractionStrategy  ExtractionStrategy `json:"contentExtractionStrategy"`
	MaxContentLength    int                `json:"maxContentLength"`
}

// Options holds the user's saved defaults.
type Options struct {
	LLMSettings     BackendSettings `json:"llmSettings"`
	ContentSettings ContentSettings `json:"contentSettings"`
}

// DefaultOptions returns the factory defaults.
func DefaultOptions() *Options {
	return &Options{
		LLMSettings: *DefaultBackendSettings(),
		ContentSettings: ContentSettings{
			MaxStoredPages:      DefaultMaxStoredPages,
			DefaultSystemPrompt: DefaultSystemPrompt,
			ExtractionStrategy:  StrategySmart,
			MaxContentLength:    DefaultMaxContentLength,
		},
	}
}

// Normalize replaces missing or out-of-range values with defaults.
func (o *Options) Normalize() {
	if o.ContentSettings.MaxStoredPages <= 0 {
		o.ContentSettings.MaxStoredPages = DefaultMaxStoredPages
	}
	if o.ContentSettings.MaxContentLength <= 0 {
		o.ContentSettings.MaxContentLength = DefaultMaxContentLength
	}
	if !o.ContentSettings.ExtractionStrategy.Valid() {
		o.ContentSettings.ExtractionStrategy = StrategySmart
	}
}

// SettingsService represents a service for persisted configuration.
// Find methods return defaults when nothing has been saved yet.
type SettingsService interface {
	// FindBackendSettings returns the active backend settings.
	FindBackendSettings(ctx context.Context) (*BackendSettings, error)

	// UpdateBackendSettings replaces the active backend settings.
	UpdateBackendSettings(ctx context.Context, s *BackendSettings) error

	// FindOptions returns the saved options.
	FindOptions(ctx context.Context) (*Options, error)

	// UpdateOptions replaces the saved options. The option's backend
	// settings also become the active backend settings.
	UpdateOptions(ctx context.Context, o *Options) error

	// ResetOptions restores the factory defaults, including the active
	// backend settings.
	ResetOptions(ctx context.Context) error
}
