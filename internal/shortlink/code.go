package shortlink

import (
	"regexp"

	"github.com/jaevor/go-nanoid"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratedCodeLength is the length of auto-generated codes.
const GeneratedCodeLength = 6

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// ValidCode reports whether a caller-supplied code is acceptable:
// 3-50 characters of letters, digits, hyphens and underscores.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// CodeGenerator produces random codes.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of alphanumeric codes.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}
