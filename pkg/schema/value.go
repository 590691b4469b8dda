package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxStringLength is the longest STRING value accepted, in characters.
const MaxStringLength = 10000

// MaxSafeInteger is the largest integer a double can hold without losing precision.
const MaxSafeInteger = 1<<53 - 1

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	floatPattern   = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
	uuidPattern    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ValidateValue checks raw input against the declared tag.
func ValidateValue(raw string, tag Tag) Result {
	if tag != Null && strings.TrimSpace(raw) == "" {
		return Invalid("Value is required")
	}

	if tag.IsArray() {
		return validateArray(raw, tag)
	}

	switch tag {
	case Null:
		return validateNull(raw)
	case Char:
		return validateChar(raw)
	case String:
		return validateString(raw)
	case Integer:
		return validateInteger(raw)
	case Float:
		return validateFloat(raw)
	case Boolean:
		return validateBoolean(raw)
	case Date:
		return validateDate(raw)
	case Time:
		return validateTime(raw)
	case DateTime:
		return validateDateTime(raw)
	case UUID:
		return validateUUID(raw)
	default:
		return Invalid(fmt.Sprintf("Unknown data type: %s", tag))
	}
}

func validateNull(raw string) Result {
	if strings.EqualFold(strings.TrimSpace(raw), "null") {
		return Valid()
	}
	return Invalid(`NULL type must have value "null"`)
}

// validateChar counts grapheme clusters so "é" written with a combining accent is one character.
func validateChar(raw string) Result {
	if uniseg.GraphemeClusterCount(raw) != 1 {
		return Invalid("CHAR must be exactly one character")
	}
	return Valid()
}

func validateString(raw string) Result {
	if utf8.RuneCountInString(raw) > MaxStringLength {
		return Invalid("String is too long (max 10,000 characters)")
	}
	return Valid()
}

func validateInteger(raw string) Result {
	if !integerPattern.MatchString(raw) {
		return Invalid("Value must be a valid integer")
	}
	digits := strings.TrimLeft(strings.TrimPrefix(raw, "-"), "0")
	// 2^53-1 has 16 digits.
	if len(digits) > 16 {
		return Invalid("Integer value is outside safe range")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n > MaxSafeInteger || n < -MaxSafeInteger {
		return Invalid("Integer value is outside safe range")
	}
	return Valid()
}

func validateFloat(raw string) Result {
	if !floatPattern.MatchString(raw) {
		return Invalid("Value must be a valid float")
	}
	// The pattern guarantees syntax, so the only possible error is ErrRange.
	f, _ := strconv.ParseFloat(raw, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Invalid("Float value must be finite")
	}
	return Valid()
}

func validateBoolean(raw string) Result {
	if strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false") {
		return Valid()
	}
	return Invalid(`Boolean must be "true" or "false"`)
}

func validateUUID(raw string) Result {
	if !uuidPattern.MatchString(raw) {
		return Invalid("UUID must be in format XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX (0-9 and a-f)")
	}
	return Valid()
}

// validateArray decodes raw as a JSON array and checks each element against the
// element type. The first failing element wins.
func validateArray(raw string, tag Tag) Result {
	elem, ok := tag.ElementType()
	if !ok {
		return Invalid(fmt.Sprintf("Unknown data type: %s", tag))
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return Invalid("Value must be a valid JSON array")
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		return Invalid("Value must be a valid JSON array")
	}

	items, isArray := decoded.([]any)
	if !isArray {
		return Invalid("Value must be an array")
	}

	for i, item := range items {
		switch item.(type) {
		case []any, map[string]any:
			return Invalid(fmt.Sprintf("Array element %d: %s", i+1, nestedReason))
		}
		if res := ValidateValue(elementText(item), elem); !res.OK() {
			return Invalid(fmt.Sprintf("Array element %d: %s", i+1, res.Reason()))
		}
	}
	return Valid()
}

// nestedReason rejects array elements that are themselves arrays or objects.
// Element types are always scalar.
const nestedReason = "Nested arrays and objects are not allowed"

// elementText renders a decoded scalar JSON element as the raw text a user would
// have typed. Numbers keep their literal spelling.
func elementText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
