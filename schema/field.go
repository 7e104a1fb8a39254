package schema

// Field is one target attribute an import knows how to populate. The field
// list for an import kind is injected configuration; it stays immutable for
// the duration of one import session.
type Field struct {
	// Key is the unique stable identifier, possibly namespaced
	// (e.g. "custom.source", "client.email").
	Key string
	// Label is the human-readable name shown to users and matched against
	// uploaded column headers.
	Label string
	// Required fields must be mapped before a session can commit, and must
	// carry a value in every imported row.
	Required bool
	// Type selects the value coercion: string, number, date, or bool.
	// Empty means string.
	Type string
	// Validate is an optional go-playground/validator tag applied to the
	// coerced value, e.g. "email" or "url".
	Validate string
}

// Record is one coerced row keyed by field key, ready for an entity writer.
// Fields whose cell was empty are absent.
type Record map[string]any

// OrderForMapping returns the fields with required ones first, preserving
// relative order otherwise. Required fields get priority when auto-mapping
// scores tie.
func OrderForMapping(fields []Field) []Field {
	ordered := make([]Field, 0, len(fields))
	for _, field := range fields {
		if field.Required {
			ordered = append(ordered, field)
		}
	}
	for _, field := range fields {
		if !field.Required {
			ordered = append(ordered, field)
		}
	}
	return ordered
}

// FieldByKey looks a field up by its key.
func FieldByKey(fields []Field, key string) (Field, bool) {
	for _, field := range fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}
