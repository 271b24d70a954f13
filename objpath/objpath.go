// Package objpath encodes and decodes TDMS object paths.
//
// A TDMS object is identified by its name components: none for the file root, one for a group,
// two for a channel. The path string wraps each component as /'<name>' with every literal
// quote doubled:
//
//	Encode("Measured", "O'Brien")  // /'Measured'/'O''Brien'
//
// Decode is the exact inverse of Encode and rejects strings that do not follow the grammar.
package objpath

import (
	"fmt"
	"strings"

	"github.com/arloliu/tdms/errs"
)

// RootPath is the path decoding engines report for the file-root object.
const RootPath = "/"

const (
	separator = '/'
	quote     = '\''
)

// Encode builds the path string for the given components.
//
// Zero components encode to the empty string.
func Encode(components ...string) string {
	if len(components) == 0 {
		return ""
	}

	size := 0
	for _, c := range components {
		size += len(c) + 3
	}

	var sb strings.Builder
	sb.Grow(size)
	for _, c := range components {
		sb.WriteByte(separator)
		sb.WriteByte(quote)
		for i := 0; i < len(c); i++ {
			if c[i] == quote {
				sb.WriteByte(quote)
			}
			sb.WriteByte(c[i])
		}
		sb.WriteByte(quote)
	}

	return sb.String()
}

// Decode splits a path string into its name components.
//
// Both "" and RootPath decode to an empty slice. Any other string must be a sequence of
// /'<escaped>' segments; a violation returns an error wrapping errs.ErrGrammar.
func Decode(path string) ([]string, error) {
	components := []string{}
	if path == "" || path == RootPath {
		return components, nil
	}

	i := 0
	for i < len(path) {
		if path[i] != separator {
			return nil, grammarError(path, i, "expected '/'")
		}
		i++

		if i >= len(path) || path[i] != quote {
			return nil, grammarError(path, i, "expected opening quote")
		}
		i++

		var sb strings.Builder
		terminated := false
		for i < len(path) {
			c := path[i]
			if c != quote {
				sb.WriteByte(c)
				i++

				continue
			}

			if i+1 < len(path) && path[i+1] == quote {
				sb.WriteByte(quote)
				i += 2

				continue
			}

			i++
			terminated = true

			break
		}

		if !terminated {
			return nil, grammarError(path, len(path), "unterminated component")
		}
		components = append(components, sb.String())
	}

	return components, nil
}

// ChildPrefix returns the prefix shared by the paths of every direct or indirect child of
// the object named by components.
func ChildPrefix(components ...string) string {
	return Encode(components...) + string(separator)
}

// IsChildOf reports whether path names an object below the given group.
//
// The match is exact on the encoded group: group "A" does not contain "/'AB'/'x'".
func IsChildOf(path string, group string) bool {
	return strings.HasPrefix(path, ChildPrefix(group))
}

func grammarError(path string, offset int, reason string) error {
	return fmt.Errorf("%w: %s at offset %d in %q", errs.ErrGrammar, reason, offset, path)
}
