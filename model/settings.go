package model

import "fmt"

// Settings holds the caller-tunable generation parameters. Pointer fields
// distinguish "unset, use the provider default" from an explicit zero.
type Settings struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   int64    `json:"max_tokens,omitempty"`
}

// Validate reports a setup error for out-of-range settings. It is called by
// the orchestrator before the model is invoked; a non-nil return fails the
// whole request without streaming anything.
func (s Settings) Validate() error {
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 2) {
		return fmt.Errorf("invalid temperature %v: must be between 0 and 2", *s.Temperature)
	}
	if s.TopP != nil && (*s.TopP <= 0 || *s.TopP > 1) {
		return fmt.Errorf("invalid top_p %v: must be in (0, 1]", *s.TopP)
	}
	if s.MaxTokens < 0 {
		return fmt.Errorf("invalid max_tokens %d: must not be negative", s.MaxTokens)
	}
	return nil
}
