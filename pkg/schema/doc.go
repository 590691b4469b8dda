// Package schema provides the typed-value validation engine for Stratum records.
//
// It defines a closed set of type tags (CHAR, STRING, INTEGER, BOOLEAN, FLOAT, NULL,
// DATE, TIME, DATETIME, UUID and their "[]T" array forms) and validates raw text input
// against a declared tag. Every check returns a Result instead of an error so callers can
// render the reason inline.
//
// Basic usage:
//
//	res := schema.ValidateValue("2025-02-30", schema.Date)
//	if !res.OK() {
//	    fmt.Println(res.Reason()) // Invalid date
//	}
//
// Tags can be parsed from their textual form:
//
//	tag, err := schema.ParseTag("[]integer")
//	res := schema.ValidateValue("[1,2,3]", tag)
//
// The registry exposes per-tag help for editors: Describe, Example, Lookup (with input
// widget hints) and Categorize, which groups tags as Primitive, Temporal, Identifier and
// Array.
//
// A Schema maps field names to tags and validates a whole set of values at once,
// aggregating failures:
//
//	s := schema.Schema{"age": schema.Integer, "joined": schema.Date}
//	err := schema.Validate(s, map[string]string{"age": "42", "joined": "2025-01-15"})
//
// The package holds no mutable state and is safe for concurrent use.
package schema
