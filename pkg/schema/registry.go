package schema

// Category groups tags for display.
type Category string

const (
	Primitive  Category = "Primitive"
	Temporal   Category = "Temporal"
	Identifier Category = "Identifier"
	Array      Category = "Array"
)

// InputHint tells an editor which widget suits a tag.
type InputHint struct {
	Widget      string `json:"widget" yaml:"widget"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	Monospace   bool   `json:"monospace" yaml:"monospace"`
}

// Info is the registry entry for a tag.
type Info struct {
	Tag         Tag       `json:"tag" yaml:"tag"`
	Category    Category  `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	Example     string    `json:"example" yaml:"example"`
	Input       InputHint `json:"input" yaml:"input"`
}

var order = []Tag{
	Char, String, Integer, Boolean, Float, Null,
	Date, Time, DateTime,
	UUID,
	CharArray, StringArray, IntegerArray, BooleanArray, FloatArray,
	DateArray, TimeArray, DateTimeArray, UUIDArray,
}

var categoryOrder = []Category{Primitive, Temporal, Identifier, Array}

var registry = map[Tag]Info{
	Char: {
		Category:    Primitive,
		Description: "A single character",
		Example:     "A",
		Input:       InputHint{Widget: "text", Placeholder: "A"},
	},
	String: {
		Category:    Primitive,
		Description: "Text of up to 10,000 characters",
		Example:     "Hello, World!",
		Input:       InputHint{Widget: "text", Placeholder: "Enter text"},
	},
	Integer: {
		Category:    Primitive,
		Description: "A whole number within the safe integer range",
		Example:     "42",
		Input:       InputHint{Widget: "number", Placeholder: "42"},
	},
	Boolean: {
		Category:    Primitive,
		Description: "true or false",
		Example:     "true",
		Input:       InputHint{Widget: "checkbox"},
	},
	Float: {
		Category:    Primitive,
		Description: "A finite decimal number",
		Example:     "3.14",
		Input:       InputHint{Widget: "number", Placeholder: "3.14"},
	},
	Null: {
		Category:    Primitive,
		Description: "The literal value null",
		Example:     "null",
		Input:       InputHint{Widget: "text", Placeholder: "null", Monospace: true},
	},
	Date: {
		Category:    Temporal,
		Description: "A calendar date (YYYY-MM-DD)",
		Example:     "2025-01-15",
		Input:       InputHint{Widget: "date", Placeholder: "YYYY-MM-DD"},
	},
	Time: {
		Category:    Temporal,
		Description: "A time of day (HH:MM:SS)",
		Example:     "14:30:45",
		Input:       InputHint{Widget: "time", Placeholder: "HH:MM:SS"},
	},
	DateTime: {
		Category:    Temporal,
		Description: "A date and time (YYYY-MM-DDTHH:MM:SS)",
		Example:     "2025-01-15T14:30:45",
		Input:       InputHint{Widget: "datetime", Placeholder: "YYYY-MM-DDTHH:MM:SS"},
	},
	UUID: {
		Category:    Identifier,
		Description: "A universally unique identifier",
		Example:     "550e8400-e29b-41d4-a716-446655440000",
		Input:       InputHint{Widget: "text", Placeholder: "XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX", Monospace: true},
	},
	CharArray: {
		Category:    Array,
		Description: "A JSON array of single characters",
		Example:     `["a","b","c"]`,
	},
	StringArray: {
		Category:    Array,
		Description: "A JSON array of strings",
		Example:     `["apple","banana"]`,
	},
	IntegerArray: {
		Category:    Array,
		Description: "A JSON array of integers",
		Example:     `[1,2,3]`,
	},
	BooleanArray: {
		Category:    Array,
		Description: "A JSON array of booleans",
		Example:     `[true,false]`,
	},
	FloatArray: {
		Category:    Array,
		Description: "A JSON array of floats",
		Example:     `[1.5,2.7]`,
	},
	DateArray: {
		Category:    Array,
		Description: "A JSON array of dates (YYYY-MM-DD)",
		Example:     `["2025-01-15","2025-02-20"]`,
	},
	TimeArray: {
		Category:    Array,
		Description: "A JSON array of times (HH:MM:SS)",
		Example:     `["09:00:00","17:30:00"]`,
	},
	DateTimeArray: {
		Category:    Array,
		Description: "A JSON array of date-times (YYYY-MM-DDTHH:MM:SS)",
		Example:     `["2025-01-15T09:00:00","2025-01-15T17:30:00"]`,
	},
	UUIDArray: {
		Category:    Array,
		Description: "A JSON array of UUIDs",
		Example:     `["550e8400-e29b-41d4-a716-446655440000"]`,
	},
}

func init() {
	for tag, info := range registry {
		info.Tag = tag
		if tag.IsArray() {
			info.Input = InputHint{Widget: "textarea", Placeholder: info.Example, Monospace: true}
		}
		registry[tag] = info
	}
}

// Tags returns every registered tag in display order.
func Tags() []Tag {
	out := make([]Tag, len(order))
	copy(out, order)
	return out
}

// Lookup returns the registry entry for t.
func Lookup(t Tag) (Info, bool) {
	info, ok := registry[t]
	return info, ok
}

// Describe returns the human description of t.
func Describe(t Tag) string {
	if info, ok := registry[t]; ok {
		return info.Description
	}
	return "Unknown data type"
}

// Example returns a canonical value of type t that passes validation.
func Example(t Tag) string {
	if info, ok := registry[t]; ok {
		return info.Example
	}
	return ""
}

// Categories returns the category names in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Categorize groups every tag under its category, preserving display order.
func Categorize() map[Category][]Tag {
	groups := make(map[Category][]Tag, len(categoryOrder))
	for _, t := range order {
		c := registry[t].Category
		groups[c] = append(groups[c], t)
	}
	return groups
}
