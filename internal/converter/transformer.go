// =============================================================================
// CSV Sales Watcher - Transformation Engine
// =============================================================================
//
// This module rewrites raw field values before they are decoded. It lets a
// deployment accept files from systems that spell values differently, for
// example a decimal comma in amounts or region codes instead of names.
//
// TRANSFORMATION TYPES:
//   - String manipulations (prepend, append, trim, case conversion)
//   - Substring replacement
//   - Lookup table replacements
//
// With no rules configured the transformer returns rows unchanged.
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules map[string][]config.TransformationAction
}

// NewTransformer creates a new Transformer with the given rules. Rules for the
// same field are applied in the order they are listed.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make(map[string][]config.TransformationAction)}
	for _, rule := range rules {
		for _, action := range rule.Actions {
			if !knownTransformation(action.Type) {
				return nil, fmt.Errorf("field '%s': unknown transformation '%s'", rule.Field, action.Type)
			}
		}
		t.rules[rule.Field] = append(t.rules[rule.Field], rule.Actions...)
	}
	return t, nil
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return t == nil || len(t.rules) == 0
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// TransformRow applies every rule to a row.
//
// PARAMETERS:
//   - fields: The raw header -> value map. It is not modified.
//
// RETURNS:
//   - A new map holding the transformed values, or fields itself when the
//     transformer has no rules.
func (t *Transformer) TransformRow(fields map[string]string) map[string]string {
	if t.Empty() {
		return fields
	}

	out := make(map[string]string, len(fields))
	for name, value := range fields {
		out[name] = t.Transform(name, value)
	}
	return out
}

// Transform applies the rules of one field to its value.
func (t *Transformer) Transform(fieldName, value string) string {
	if t.Empty() {
		return value
	}

	result := value
	for _, action := range t.rules[fieldName] {
		result = ApplyTransformation(result, action)
	}
	return result
}

// ApplyTransformation applies a single transformation action. Unknown types
// leave the value unchanged; NewTransformer rejects them up front.
func ApplyTransformation(value string, action config.TransformationAction) string {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		return action.Value + value

	case "append_string":
		return value + action.Value

	case "trim":
		return strings.TrimSpace(value)

	case "uppercase":
		return strings.ToUpper(value)

	case "lowercase":
		return strings.ToLower(value)

	case "title":
		// "nORTH" -> "North"
		return cases.Title(language.Und).String(value)

	case "replace":
		// EXAMPLE:
		//   Input: "12,50"
		//   Action: replace with find "," and value "."
		//   Output: "12.50"
		if action.Find == "" {
			return value
		}
		return strings.ReplaceAll(value, action.Find, action.Value)

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// EXAMPLE:
		//   Input: "N"
		//   Action: lookup with lookup_table {"N": "North", "S": "South"}
		//   Output: "North"
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement
		}
		return value
	}

	return value
}

func knownTransformation(kind string) bool {
	switch kind {
	case "prepend_string", "append_string", "trim", "uppercase", "lowercase", "title", "replace", "lookup":
		return true
	}
	return false
}
