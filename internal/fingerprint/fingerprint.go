package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashquiz/internal/domain"
)

// Canonical joins the question's fields in a fixed order. Only line endings
// are normalized; prompts are matched exactly elsewhere, so case and
// surrounding whitespace stay significant here too.
func Canonical(q domain.Question) string {
	normalizePart := func(part string) string {
		return strings.ReplaceAll(part, "\r\n", "\n")
	}

	parts := []string{
		normalizePart(q.Topic),
		normalizePart(q.Prompt),
		normalizePart(q.Answer),
	}
	for _, opt := range q.Options {
		parts = append(parts, normalizePart(opt))
	}

	// A unit separator cannot appear in typed text, so "ab"+"c" and
	// "a"+"bc" stay distinct.
	return strings.Join(parts, "\x1f")
}

// Of returns the SHA-256 of the question's canonical form as a hex string.
func Of(q domain.Question) string {
	sum := sha256.Sum256([]byte(Canonical(q)))
	return fmt.Sprintf("%x", sum)
}
