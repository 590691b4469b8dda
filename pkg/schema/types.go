package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Tag names a supported value type.
// The set is closed: only the constants declared below are valid.
type Tag string

// ArrayPrefix marks an array tag ("[]INTEGER").
const ArrayPrefix = "[]"

// Scalar tags.
const (
	Char     Tag = "CHAR"
	String   Tag = "STRING"
	Integer  Tag = "INTEGER"
	Boolean  Tag = "BOOLEAN"
	Float    Tag = "FLOAT"
	Null     Tag = "NULL"
	Date     Tag = "DATE"
	Time     Tag = "TIME"
	DateTime Tag = "DATETIME"
	UUID     Tag = "UUID"
)

// Array tags.
const (
	CharArray     Tag = ArrayPrefix + Char
	StringArray   Tag = ArrayPrefix + String
	IntegerArray  Tag = ArrayPrefix + Integer
	BooleanArray  Tag = ArrayPrefix + Boolean
	FloatArray    Tag = ArrayPrefix + Float
	DateArray     Tag = ArrayPrefix + Date
	TimeArray     Tag = ArrayPrefix + Time
	DateTimeArray Tag = ArrayPrefix + DateTime
	UUIDArray     Tag = ArrayPrefix + UUID
)

// ErrUnknownTag is returned by ParseTag for names outside the registry.
var ErrUnknownTag = errors.New("unknown data type")

// String returns the textual form of the tag.
func (t Tag) String() string { return string(t) }

// IsArray reports whether t uses the array notation.
func (t Tag) IsArray() bool {
	return strings.HasPrefix(string(t), ArrayPrefix)
}

// Known reports whether t is part of the registry.
func (t Tag) Known() bool {
	_, ok := registry[t]
	return ok
}

// ElementType returns the scalar element type of an array tag.
// It returns false for scalar tags and for tags outside the registry.
func (t Tag) ElementType() (Tag, bool) {
	if !t.IsArray() || !t.Known() {
		return "", false
	}
	return Tag(strings.TrimPrefix(string(t), ArrayPrefix)), true
}

// ElementType returns the scalar element type of an array tag.
func ElementType(t Tag) (Tag, bool) { return t.ElementType() }

// ParseTag converts a type name such as "integer" or "[]DATE" to a Tag.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Known() {
		return "", fmt.Errorf("%w: %s", ErrUnknownTag, s)
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are rejected.
func (t *Tag) UnmarshalText(data []byte) error {
	parsed, err := ParseTag(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
