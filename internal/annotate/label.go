package annotate

import (
	"fmt"
	"strings"

	"emoscan/internal/emotion"
)

// FormatEmotion renders the overlay text for an emotion result:
// "happy (0.92)" for a real classification, "Neutral" for a fallback.
// Classifier labels keep their lowercase form; only the fallback is
// capitalized, so it reads as a state rather than a classification.
func FormatEmotion(res emotion.Result) string {
	if !res.Ok {
		return titleCase(emotion.NeutralLabel)
	}
	return fmt.Sprintf("%s (%.2f)", res.Label, res.Confidence)
}

// titleCase uppercases the first letter of an ASCII emotion label.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
