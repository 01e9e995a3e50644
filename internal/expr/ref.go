package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind discriminates the two reference forms the language recognizes.
type RefKind int

const (
	// RefStepOutput is a reference to a prior step's recorded output,
	// optionally narrowed by a dot path: steps.<N>.output[.<path>].
	RefStepOutput RefKind = iota
	// RefVariable is a reference to a named variable: variables.<name>.
	RefVariable
)

// Ref is one parsed reference body (the text between the ${{ }} markers).
type Ref struct {
	Kind RefKind
	Step int      // step index, RefStepOutput only
	Path []string // dot path into the output, RefStepOutput only
	Name string   // variable name, RefVariable only
}

// ParseReference parses the body of an expression. Only the two documented
// forms are valid; anything else is reported as not-a-reference and the
// surrounding expression resolves to absent.
func ParseReference(body string) (Ref, bool) {
	parts := strings.Split(body, ".")
	switch parts[0] {
	case "steps":
		if len(parts) < 3 || parts[2] != "output" {
			return Ref{}, false
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return Ref{}, false
		}
		ref := Ref{Kind: RefStepOutput, Step: idx}
		if len(parts) > 3 {
			ref.Path = parts[3:]
			for _, seg := range ref.Path {
				if seg == "" {
					return Ref{}, false
				}
			}
		}
		return ref, true
	case "variables":
		if len(parts) < 2 || parts[1] == "" {
			return Ref{}, false
		}
		// Variable names may themselves contain dots; everything after the
		// prefix is the name.
		return Ref{Kind: RefVariable, Name: strings.Join(parts[1:], ".")}, true
	default:
		return Ref{}, false
	}
}

// ParseFull parses s when it is exactly one full expression, rejecting
// literals and inline interpolations. The graph mapper uses it to decide
// which input values encode dependencies.
func ParseFull(s string) (Ref, bool) {
	m := fullPattern.FindStringSubmatch(s)
	if m == nil {
		return Ref{}, false
	}
	return ParseReference(m[1])
}

// StepReference renders the canonical full-expression form referencing a
// step's output port. An empty port references the whole output.
func StepReference(step int, port string) string {
	if port == "" {
		return fmt.Sprintf("${{ steps.%d.output }}", step)
	}
	return fmt.Sprintf("${{ steps.%d.output.%s }}", step, port)
}
