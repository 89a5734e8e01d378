package expr

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// referencePattern matches a `$` followed by one or more ASCII letters or underscores.
var referencePattern = regexp.MustCompile(`\$[A-Za-z_]+`)

// accessFunction is the name of the registry access call that replaces references.
const accessFunction = "arg"

// References returns the distinct argument names referenced by source, in order of
// first appearance. A `$name` inside the literal text of a quoted string is not a
// reference; inside a `${...}` interpolation it is.
func References(source string) []string {
	matches := referenceMatches(source)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := source[m[0]+1 : m[1]]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Rewrite replaces every `$name` reference in source with a registry access call.
// Every reference must be declared by catalog.
func Rewrite(source string, catalog Catalog) (string, []string, error) {
	refs := References(source)
	for _, name := range refs {
		if _, ok := catalog.Declaration(name); !ok {
			return "", nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrUnresolvedReference, "cannot rewrite expression"), "reference", name),
				"source", source,
			)
		}
	}

	var b strings.Builder
	last := 0
	for _, m := range referenceMatches(source) {
		b.WriteString(source[last:m[0]])
		b.WriteString(accessCall(source[m[0]+1 : m[1]]))
		last = m[1]
	}
	b.WriteString(source[last:])
	return b.String(), refs, nil
}

// referenceMatches returns the index pairs of the references in source that lie in
// expression context.
func referenceMatches(source string) [][]int {
	inExpr := expressionContext(source)
	var out [][]int
	for _, m := range referencePattern.FindAllStringIndex(source, -1) {
		if inExpr[m[0]] {
			out = append(out, m)
		}
	}
	return out
}

// expressionContext reports, for every byte of source, whether it lies in expression
// context rather than in the literal text of a quoted string.
func expressionContext(source string) []bool {
	inExpr := make([]bool, len(source))
	// Each entry is the open brace count of an expression context, or -1 for a string.
	modes := []int{0}
	for i := 0; i < len(source); i++ {
		top := len(modes) - 1
		if modes[top] < 0 {
			switch rest := source[i:]; {
			case rest[0] == '\\':
				i++
			case rest[0] == '"':
				modes = modes[:top]
			case strings.HasPrefix(rest, "$${"), strings.HasPrefix(rest, "%%{"):
				i += 2
			case strings.HasPrefix(rest, "${"), strings.HasPrefix(rest, "%{"):
				modes = append(modes, 0)
				i++
			}
			continue
		}

		inExpr[i] = true
		switch source[i] {
		case '"':
			modes = append(modes, -1)
		case '{':
			modes[top]++
		case '}':
			switch {
			case modes[top] > 0:
				modes[top]--
			case top > 0:
				modes = modes[:top]
			}
		}
	}
	return inExpr
}

func accessCall(name string) string {
	return accessFunction + "(" + strconv.Quote(name) + ")"
}

// IsReferenceable reports whether name can be written as a `$name` reference.
func IsReferenceable(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r != '_' && (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
