package config

import (
	"testing"
)

func TestLoadEmotions(t *testing.T) {
	emotions := LoadEmotions()

	if len(emotions.Labels) == 0 {
		t.Fatal("expected embedded emotion labels, got none")
	}

	if !emotions.ValidLabel("neutral") {
		t.Error("expected 'neutral' to be a valid label")
	}
	if emotions.ValidLabel("bored") {
		t.Error("did not expect 'bored' to be a valid label")
	}
}

func TestEmotionsColor(t *testing.T) {
	emotions := LoadEmotions()

	known := emotions.Color("known")
	if known != [3]int{0, 255, 0} {
		t.Errorf("expected green for known, got %v", known)
	}

	unknown := emotions.Color("unknown")
	if unknown != [3]int{0, 0, 255} {
		t.Errorf("expected red for unknown, got %v", unknown)
	}

	// Unconfigured roles fall back to black.
	if missing := emotions.Color("nope"); missing != [3]int{0, 0, 0} {
		t.Errorf("expected black fallback, got %v", missing)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "unset", value: "", expected: 25},
		{name: "valid", value: "10", expected: 10},
		{name: "invalid", value: "abc", expected: 25},
		{name: "negative", value: "-5", expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_ENV_INT", tt.value)
			}
			if got := envInt("TEST_ENV_INT", 25); got != tt.expected {
				t.Errorf("envInt() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestEnvFloat(t *testing.T) {
	t.Setenv("TEST_ENV_FLOAT", "0.45")
	if got := envFloat("TEST_ENV_FLOAT", 0.6); got != 0.45 {
		t.Errorf("envFloat() = %v, want 0.45", got)
	}
	if got := envFloat("TEST_ENV_FLOAT_MISSING", 0.6); got != 0.6 {
		t.Errorf("envFloat() fallback = %v, want 0.6", got)
	}
}
