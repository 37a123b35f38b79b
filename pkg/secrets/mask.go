package secrets

import (
	"crypto/sha256"
	"encoding/hex"
)

// Masking styles.
const (
	StyleFull    = "full"
	StylePartial = "partial"
	StyleHash    = "hash"
)

const defaultReplacement = "***"

// Masking configures how secret values are rendered.
type Masking struct {
	Style            string
	Replacement      string
	PartialShowChars int
}

// DefaultMasking fully masks values, which suits short passwords.
func DefaultMasking() *Masking {
	return &Masking{Style: StyleFull, Replacement: "********"}
}

// MaskValue renders value according to config. Nil config uses
// DefaultMasking; unknown styles mask partially.
func MaskValue(value string, config *Masking) string {
	if config == nil {
		config = DefaultMasking()
	}

	replacement := config.Replacement
	if replacement == "" {
		replacement = defaultReplacement
	}

	switch config.Style {
	case StyleFull:
		return replacement
	case StyleHash:
		// A stable digest prefix lets two masked outputs be compared.
		sum := sha256.Sum256([]byte(value))
		return "sha256:" + hex.EncodeToString(sum[:])[:16]
	default:
		if len(value) <= config.PartialShowChars {
			return replacement
		}
		return value[:config.PartialShowChars] + replacement
	}
}
