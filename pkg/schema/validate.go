package schema

import "sort"

// Schema is a map of field names to their declared tags.
// Example: {"age": Integer, "joined": Date, "tags": StringArray}
type Schema map[string]Tag

// Validate checks every field of the schema against values.
// Missing fields are validated as empty input, so they fail unless declared NULL.
// Failures are reported in field-name order.
func Validate(schema Schema, values map[string]string) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return ValidateFields(schema, values, keys...)
}

// ValidateFields validates only specific fields from values against the schema.
func ValidateFields(schema Schema, values map[string]string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		tag, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}

		value := values[fieldName]
		if res := ValidateValue(value, tag); !res.OK() {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: res.Reason(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}
