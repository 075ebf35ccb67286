package trie

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
)

// Separator joins the labels of a classification path.
const Separator = ","

// ParsePath splits a comma-joined classification into labels.
// An empty string is the empty path and a single trailing separator is ignored,
// so "animal,mammal," parses the same as "animal,mammal".
func ParsePath(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, Separator)
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// JoinPath is the inverse of ParsePath.
func JoinPath(path []string) string {
	return strings.Join(path, Separator)
}

// ValidateLabel reports whether label may be stored in a tree.
// Labels must be non-empty and must not contain uppercase characters.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label", internalerr.ErrInvalidLabel)
	}
	for _, r := range label {
		if unicode.IsUpper(r) {
			return fmt.Errorf("%w: uppercase in label %q", internalerr.ErrInvalidLabel, label)
		}
	}
	return nil
}
