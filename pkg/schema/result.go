package schema

import (
	"encoding/json"
	"errors"
)

// Result is the outcome of a validation call: valid, or invalid with a reason.
// The zero value is Valid.
type Result struct {
	reason string
}

// Valid returns a passing result.
func Valid() Result { return Result{} }

// Invalid returns a failing result. An empty reason is replaced with a generic one
// so an invalid result always carries text.
func Invalid(reason string) Result {
	if reason == "" {
		reason = "Invalid value"
	}
	return Result{reason: reason}
}

// OK reports whether the result is valid.
func (r Result) OK() bool { return r.reason == "" }

// Reason returns the failure text, or "" for a valid result.
func (r Result) Reason() string { return r.reason }

// Err converts the result into an error, nil when valid.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValueError{Reason: r.reason}
}

func (r Result) String() string {
	if r.OK() {
		return "valid"
	}
	return "invalid: " + r.reason
}

type resultJSON struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// MarshalJSON encodes the result as {"valid":false,"reason":"..."}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Valid: r.OK(), Reason: r.reason})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Valid {
		*r = Valid()
		return nil
	}
	if raw.Reason == "" {
		return errors.New("schema: invalid result without reason")
	}
	*r = Invalid(raw.Reason)
	return nil
}
