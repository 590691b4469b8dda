package schema

import (
	"strings"
	"testing"
)

func TestValidateValue_EmptyPolicy(t *testing.T) {
	for _, tag := range Tags() {
		if tag == Null {
			continue
		}
		for _, raw := range []string{"", "   ", "\t\n"} {
			res := ValidateValue(raw, tag)
			if res.OK() || res.Reason() != "Value is required" {
				t.Errorf("ValidateValue(%q, %s) = %v, want Value is required", raw, tag, res)
			}
		}
	}

	res := ValidateValue("", Null)
	if res.Reason() != `NULL type must have value "null"` {
		t.Errorf("ValidateValue(\"\", NULL) = %v", res)
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		tag    Tag
		reason string // empty means valid
	}{
		{"null lower", "null", Null, ""},
		{"null upper", "NULL", Null, ""},
		{"null padded", "  Null ", Null, ""},
		{"null other", "nil", Null, `NULL type must have value "null"`},

		{"char ascii", "x", Char, ""},
		{"char multibyte", "é", Char, ""},
		{"char combining", "e\u0301", Char, ""},
		{"char emoji", "👍", Char, ""},
		{"char two", "ab", Char, "CHAR must be exactly one character"},
		{"char trailing space", "a ", Char, "CHAR must be exactly one character"},

		{"string", "anything goes", String, ""},
		{"string max", strings.Repeat("a", MaxStringLength), String, ""},
		{"string max runes", strings.Repeat("é", MaxStringLength), String, ""},
		{"string too long", strings.Repeat("a", MaxStringLength+1), String, "String is too long (max 10,000 characters)"},

		{"integer", "42", Integer, ""},
		{"integer negative", "-17", Integer, ""},
		{"integer zero padded", "007", Integer, ""},
		{"integer max safe", "9007199254740991", Integer, ""},
		{"integer min safe", "-9007199254740991", Integer, ""},
		{"integer decimal", "42.0", Integer, "Value must be a valid integer"},
		{"integer plus", "+42", Integer, "Value must be a valid integer"},
		{"integer exponent", "1e3", Integer, "Value must be a valid integer"},
		{"integer separator", "1,000", Integer, "Value must be a valid integer"},
		{"integer beyond safe", "9007199254740992", Integer, "Integer value is outside safe range"},
		{"integer huge", "123456789012345678901234567890", Integer, "Integer value is outside safe range"},
		{"integer huge negative", "-99999999999999999999", Integer, "Integer value is outside safe range"},

		{"float", "3.14", Float, ""},
		{"float integer", "3", Float, ""},
		{"float negative", "-0.5", Float, ""},
		{"float leading dot", ".5", Float, ""},
		{"float trailing dot", "5.", Float, ""},
		{"float word", "abc", Float, "Value must be a valid float"},
		{"float dot only", ".", Float, "Value must be a valid float"},
		{"float plus", "+1.5", Float, "Value must be a valid float"},
		{"float exponent", "1e10", Float, "Value must be a valid float"},
		{"float infinity word", "Infinity", Float, "Value must be a valid float"},
		{"float overflow", strings.Repeat("9", 400), Float, "Float value must be finite"},

		{"bool true", "true", Boolean, ""},
		{"bool FALSE", "FALSE", Boolean, ""},
		{"bool yes", "yes", Boolean, `Boolean must be "true" or "false"`},
		{"bool one", "1", Boolean, `Boolean must be "true" or "false"`},

		{"uuid", "550e8400-e29b-41d4-a716-446655440000", UUID, ""},
		{"uuid upper", "550E8400-E29B-41D4-A716-446655440000", UUID, ""},
		{"uuid bad", "not-a-uuid", UUID, "UUID must be in format XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX (0-9 and a-f)"},
		{"uuid braces", "{550e8400-e29b-41d4-a716-446655440000}", UUID, "UUID must be in format XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX (0-9 and a-f)"},
		{"uuid no hyphens", "550e8400e29b41d4a716446655440000", UUID, "UUID must be in format XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX (0-9 and a-f)"},

		{"unknown", "x", Tag("BLOB"), "Unknown data type: BLOB"},
		{"unknown array", "[]", Tag("[]BLOB"), "Unknown data type: []BLOB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateValue(tt.raw, tt.tag)
			if tt.reason == "" {
				if !res.OK() {
					t.Errorf("ValidateValue(%q, %s) = %v, want valid", tt.raw, tt.tag, res)
				}
				return
			}
			if res.OK() || res.Reason() != tt.reason {
				t.Errorf("ValidateValue(%q, %s) = %v, want %q", tt.raw, tt.tag, res, tt.reason)
			}
		})
	}
}

func TestValidateValue_Arrays(t *testing.T) {
	tests := []struct {
		raw    string
		tag    Tag
		reason string
	}{
		{`[1,2,3]`, IntegerArray, ""},
		{`[]`, StringArray, ""},
		{` [ "a" ] `, CharArray, ""},
		{`[null]`, StringArray, ""},
		{`["2025-01-15"]`, DateArray, ""},
		{`[1,"x",3]`, IntegerArray, "Array element 2: Value must be a valid integer"},
		{`[1,"x","y"]`, IntegerArray, "Array element 2: Value must be a valid integer"},
		{`["ok",""]`, StringArray, "Array element 2: Value is required"},
		{`[1.0]`, IntegerArray, "Array element 1: Value must be a valid integer"},
		{`[1.5,2.7]`, FloatArray, ""},
		{`[[1]]`, IntegerArray, "Array element 1: Nested arrays and objects are not allowed"},
		{`[["a","b"]]`, StringArray, "Array element 1: Nested arrays and objects are not allowed"},
		{`["ok",{"k":1}]`, StringArray, "Array element 2: Nested arrays and objects are not allowed"},
		{`[{"k":1}]`, StringArray, "Array element 1: Nested arrays and objects are not allowed"},
		{`[[]]`, DateArray, "Array element 1: Nested arrays and objects are not allowed"},
		{`["2025-02-30"]`, DateArray, "Array element 1: Invalid date"},
		{`["12:00:00","24:00:00"]`, TimeArray, "Array element 2: Hours must be between 00 and 23"},
		{`[true,"no"]`, BooleanArray, `Array element 2: Boolean must be "true" or "false"`},
		{`{"a":1}`, IntegerArray, "Value must be an array"},
		{`42`, IntegerArray, "Value must be an array"},
		{`"text"`, StringArray, "Value must be an array"},
		{`[1,2`, IntegerArray, "Value must be a valid JSON array"},
		{`[1]]`, IntegerArray, "Value must be a valid JSON array"},
		{`[1] [2]`, IntegerArray, "Value must be a valid JSON array"},
		{`not json`, StringArray, "Value must be a valid JSON array"},
	}

	for _, tt := range tests {
		res := ValidateValue(tt.raw, tt.tag)
		if tt.reason == "" {
			if !res.OK() {
				t.Errorf("ValidateValue(%q, %s) = %v, want valid", tt.raw, tt.tag, res)
			}
			continue
		}
		if res.Reason() != tt.reason {
			t.Errorf("ValidateValue(%q, %s) reason = %q, want %q", tt.raw, tt.tag, res.Reason(), tt.reason)
		}
	}
}

func TestValidateValue_ElementsAreScalar(t *testing.T) {
	for _, tag := range Tags() {
		elem, ok := tag.ElementType()
		if !ok {
			continue
		}
		if _, nested := elem.ElementType(); nested {
			t.Errorf("%s has a non-scalar element type %s", tag, elem)
		}
		for _, raw := range []string{`[[]]`, `[{}]`} {
			if res := ValidateValue(raw, tag); res.OK() {
				t.Errorf("ValidateValue(%q, %s) = valid, want nested element rejected", raw, tag)
			}
		}
	}
}

func TestValidateValue_Idempotent(t *testing.T) {
	inputs := []string{"", "null", "42", "[1,\"x\"]", "2025-02-30", "25:00:00"}
	for _, tag := range Tags() {
		for _, raw := range inputs {
			first := ValidateValue(raw, tag)
			second := ValidateValue(raw, tag)
			if first != second {
				t.Errorf("ValidateValue(%q, %s) not stable: %v then %v", raw, tag, first, second)
			}
		}
	}
}
