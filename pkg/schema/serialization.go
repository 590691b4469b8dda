package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the schema as a map of field names to tag strings.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw := make(map[string]string, len(s))
	for key, tag := range s {
		if !tag.Known() {
			return nil, fmt.Errorf("field %s: %w: %s", key, ErrUnknownTag, tag)
		}
		raw[key] = tag.String()
	}

	return json.Marshal(raw)
}

// UnmarshalJSON deserializes the schema from a map of field names to tag strings.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}

	if string(data) == "null" {
		*s = nil
		return nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseTagMap(raw)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// ParseTagMap converts a map of field names to tag strings into a Schema.
// Example: {"age": "integer", "tags": "[]STRING"}
func ParseTagMap(tagMap map[string]string) (Schema, error) {
	result := make(Schema, len(tagMap))
	for key, name := range tagMap {
		tag, err := ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = tag
	}
	return result, nil
}
