package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidate_Success(t *testing.T) {
	schema := Schema{
		"initial": Char,
		"name":    String,
		"retries": Integer,
		"ratio":   Float,
		"enabled": Boolean,
		"deleted": Null,
		"tags":    StringArray,
	}

	values := map[string]string{
		"initial": "J",
		"name":    "Jane",
		"retries": "3",
		"ratio":   "0.75",
		"enabled": "true",
		"deleted": "null",
		"tags":    `["prod","critical"]`,
	}

	err := Validate(schema, values)
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_MissingField(t *testing.T) {
	schema := Schema{
		"name":    String,
		"retries": Integer,
	}

	values := map[string]string{
		"name": "Jane",
		// missing retries
	}

	err := Validate(schema, values)
	if err == nil {
		t.Fatal("Validate() should return error for missing field")
	}

	aggr, ok := err.(*AggregateError)
	if !ok {
		t.Fatalf("error should be *AggregateError, got %T", err)
	}

	if len(aggr.Errors) != 1 {
		t.Errorf("Validate() = %d errors, want 1", len(aggr.Errors))
	}

	validErr, ok := aggr.Errors[0].(*ValidationError)
	if !ok {
		t.Fatalf("error should be *ValidationError, got %T", aggr.Errors[0])
	}

	if validErr.Key != "retries" || validErr.Reason != "Value is required" {
		t.Errorf("error = %+v, want retries / Value is required", validErr)
	}
}

func TestValidate_MissingNullField(t *testing.T) {
	err := Validate(Schema{"deleted": Null}, map[string]string{})
	if err == nil {
		t.Fatal("a missing NULL field is not the literal null")
	}
}

func TestValidate_MultipleErrorsSorted(t *testing.T) {
	schema := Schema{
		"zeta":  Integer,
		"alpha": Date,
		"mid":   UUID,
	}

	values := map[string]string{
		"zeta":  "1.5",
		"alpha": "2025-02-30",
		"mid":   "nope",
	}

	errs := ValidationErrors(Validate(schema, values))
	if len(errs) != 3 {
		t.Fatalf("Validate() = %d errors, want 3", len(errs))
	}

	var keys []string
	for _, err := range errs {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("error should be *ValidationError, got %T", err)
		}
		keys = append(keys, ve.Key)
	}
	if strings.Join(keys, ",") != "alpha,mid,zeta" {
		t.Errorf("error order = %v, want alpha,mid,zeta", keys)
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	if err := Validate(Schema{}, map[string]string{"x": "y"}); err != nil {
		t.Errorf("Validate() with empty schema should return nil, got %v", err)
	}

	var schema Schema
	if err := Validate(schema, nil); err != nil {
		t.Errorf("Validate() with nil schema should return nil, got %v", err)
	}
}

func TestValidateFields_PartialValidation(t *testing.T) {
	schema := Schema{
		"name":    String,
		"retries": Integer,
	}

	values := map[string]string{
		"name":    "Jane",
		"retries": "invalid", // Wrong type, but not validated
	}

	if err := ValidateFields(schema, values, "name"); err != nil {
		t.Errorf("ValidateFields(name only) error = %v, want nil", err)
	}
	if err := ValidateFields(schema, values); err != nil {
		t.Errorf("ValidateFields() with no fields should return nil, got %v", err)
	}
}

func TestValidateFields_UndefinedField(t *testing.T) {
	err := ValidateFields(Schema{"name": String}, map[string]string{"unknown": "v"}, "unknown")

	errs := ValidationErrors(err)
	if len(errs) != 1 {
		t.Fatalf("ValidateFields() = %d errors, want 1", len(errs))
	}
	ve := errs[0].(*ValidationError)
	if ve.Key != "unknown" || ve.Reason != "not defined in schema" {
		t.Errorf("error = %+v", ve)
	}
}

func TestValidationError_String(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{
			&ValidationError{Key: "age", Reason: "Value is required"},
			`field "age": Value is required`,
		},
		{
			&ValidationError{Key: "age", Reason: "Value must be a valid integer", Value: "x"},
			`field "age": Value must be a valid integer (got "x")`,
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("ValidationError.Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAggregateError_String(t *testing.T) {
	aggr := &AggregateError{
		Errors: []error{
			&ValidationError{Key: "a", Reason: "Value is required"},
			&ValidationError{Key: "b", Reason: "Invalid date", Value: "2025-02-30"},
		},
	}

	if !strings.Contains(aggr.Error(), "2 validation errors") {
		t.Errorf("AggregateError.Error() should mention 2 errors, got: %s", aggr.Error())
	}

	single := &AggregateError{Errors: aggr.Errors[:1]}
	if single.Error() != `field "a": Value is required` {
		t.Errorf("single AggregateError.Error() = %q", single.Error())
	}

	if ValidationErrors(&ValueError{Reason: "x"}) != nil {
		t.Error("ValidationErrors() on non-aggregate should be nil")
	}
}

func TestSchema_JSON(t *testing.T) {
	var s Schema
	if err := json.Unmarshal([]byte(`{"age":"integer","tags":"[]string"}`), &s); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if s["age"] != Integer || s["tags"] != StringArray {
		t.Errorf("Unmarshal = %v", s)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `{"age":"INTEGER","tags":"[]STRING"}` {
		t.Errorf("Marshal = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"age":"bigint"}`), &s); err == nil {
		t.Error("Unmarshal should reject unknown tags")
	}
	if _, err := json.Marshal(Schema{"x": Tag("BLOB")}); err == nil {
		t.Error("Marshal should reject unknown tags")
	}
}
