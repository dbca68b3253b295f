package config

import "gopkg.in/yaml.v3"

// LoadEmotions parses the embedded emotions.yaml.
func LoadEmotions() EmotionsConfig {
	var emotions EmotionsConfig
	if err := yaml.Unmarshal(emotionsYAML, &emotions); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded emotions.yaml: " + err.Error())
	}
	return emotions
}

// ValidLabel reports whether a classifier-reported label is part of the
// configured emotion set.
func (e EmotionsConfig) ValidLabel(label string) bool {
	for _, l := range e.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Color returns the configured BGR color for a role ("known", "unknown",
// "emotion"), or black if the role is not configured.
func (e EmotionsConfig) Color(role string) [3]int {
	c, ok := e.Colors[role]
	if !ok || len(c) != 3 {
		return [3]int{0, 0, 0}
	}
	return [3]int{c[0], c[1], c[2]}
}
