package config

import "strings"

// RenderEngine selects the markdown rendering engine for a hub.
type RenderEngine string

const (
	// EngineClassic is the legacy ordered regex-substitution renderer.
	// Output is byte-compatible with the original converter scripts.
	EngineClassic RenderEngine = "classic"
	// EngineGoldmark renders standard CommonMark via goldmark.
	EngineGoldmark RenderEngine = "goldmark"
)

// NormalizeEngine lowercases and trims a raw engine value, defaulting an
// empty value to classic. Unknown values pass through unchanged so that
// validation can reject them instead of silently falling back.
func NormalizeEngine(raw string) RenderEngine {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return EngineClassic
	}
	return RenderEngine(cleaned)
}

// Valid reports whether the engine is one of the supported values.
func (e RenderEngine) Valid() bool {
	return e == EngineClassic || e == EngineGoldmark
}
