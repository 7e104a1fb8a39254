package mapping

import (
	"fmt"

	"crmimport/importer"
	"crmimport/match"
	"crmimport/schema"
)

// State of a mapping session.
type State string

const (
	// StateAwaitingSheet means the upload has multiple sheets and the caller
	// must pick one before any mapping work happens.
	StateAwaitingSheet State = "awaiting_sheet"
	// StateProposed means the auto-mapper has run and its proposal is intact.
	StateProposed State = "proposed"
	// StateCorrecting means the user has revised the proposal.
	StateCorrecting State = "correcting"
	// StateCommitted means the mapping is frozen and handed to execution.
	StateCommitted State = "committed"
)

// Session coordinates sheet selection, the auto-mapped proposal, manual
// corrections, and validation for one uploaded file. One session belongs to
// one upload and one logical caller; it needs no internal locking.
type Session struct {
	source  *importer.Source
	fields  []schema.Field
	matcher *match.Matcher

	state    State
	sheet    *importer.Sheet
	assigned map[string]string
}

// NewSession creates a session over a parsed upload. Single-sheet sources go
// straight to a proposed mapping; multi-sheet workbooks wait for an explicit
// sheet choice.
func NewSession(source *importer.Source, fields []schema.Field) *Session {
	session := &Session{
		source:   source,
		fields:   append([]schema.Field(nil), fields...),
		matcher:  match.NewMatcher(),
		state:    StateAwaitingSheet,
		assigned: make(map[string]string, len(fields)),
	}

	if len(source.Sheets) == 1 {
		session.sheet = &source.Sheets[0]
		session.propose()
	}

	return session
}

func (s *Session) propose() {
	s.assigned = s.matcher.AutoMap(s.sheet.Headers, schema.OrderForMapping(s.fields))
	s.state = StateProposed
}

func (s *Session) State() State { return s.state }

// SheetNames lists the upload's sheets in workbook order.
func (s *Session) SheetNames() []string { return s.source.SheetNames() }

// SheetName returns the selected sheet, or "" before selection.
func (s *Session) SheetName() string {
	if s.sheet == nil {
		return ""
	}
	return s.sheet.Name
}

// SelectSheet picks the sheet to map against and re-proposes the mapping.
// Changing sheets discards prior corrections since headers differ.
func (s *Session) SelectSheet(name string) error {
	if s.state == StateCommitted {
		return ErrAlreadyCommitted
	}
	sheet, ok := s.source.Sheet(name)
	if !ok {
		return fmt.Errorf("unknown sheet %q", name)
	}
	s.sheet = sheet
	s.propose()
	return nil
}

// Headers returns the selected sheet's column headers in order.
func (s *Session) Headers() ([]string, error) {
	if s.sheet == nil {
		return nil, ErrSelectionRequired
	}
	return append([]string(nil), s.sheet.Headers...), nil
}

// Rows returns the selected sheet's non-blank data rows.
func (s *Session) Rows() ([]importer.Row, error) {
	if s.sheet == nil {
		return nil, ErrSelectionRequired
	}
	return append([]importer.Row(nil), s.sheet.Rows...), nil
}

// Fields returns the expected fields in their configured order.
func (s *Session) Fields() []schema.Field {
	return append([]schema.Field(nil), s.fields...)
}

// Mapping returns a copy of the current field-key to header assignment.
func (s *Session) Mapping() map[string]string {
	mapped := make(map[string]string, len(s.assigned))
	for key, header := range s.assigned {
		mapped[key] = header
	}
	return mapped
}

// Confidence reports the similarity score behind a field's current
// assignment, 0 when the field is unassigned.
func (s *Session) Confidence(fieldKey string) float64 {
	header, ok := s.assigned[fieldKey]
	if !ok {
		return 0
	}
	field, ok := schema.FieldByKey(s.fields, fieldKey)
	if !ok {
		return 0
	}
	return s.matcher.FieldScore(field, header)
}

// Assign maps a field to a header. A header already held by another field
// moves to the new field (the prior holder is cleared), keeping the
// field↔header assignment a bijection. This is deliberate resolution, not an
// error.
func (s *Session) Assign(fieldKey, header string) error {
	if s.sheet == nil {
		return ErrSelectionRequired
	}
	if s.state == StateCommitted {
		return ErrAlreadyCommitted
	}
	if _, ok := schema.FieldByKey(s.fields, fieldKey); !ok {
		return fmt.Errorf("unknown field %q", fieldKey)
	}
	if !s.hasHeader(header) {
		return fmt.Errorf("header %q not present in sheet %q", header, s.sheet.Name)
	}

	for key, existing := range s.assigned {
		if existing == header && key != fieldKey {
			delete(s.assigned, key)
		}
	}
	s.assigned[fieldKey] = header
	s.state = StateCorrecting
	return nil
}

// Unassign clears one field's mapping, meaning "do not import this column".
func (s *Session) Unassign(fieldKey string) error {
	if s.sheet == nil {
		return ErrSelectionRequired
	}
	if s.state == StateCommitted {
		return ErrAlreadyCommitted
	}
	if _, ok := schema.FieldByKey(s.fields, fieldKey); !ok {
		return fmt.Errorf("unknown field %q", fieldKey)
	}

	delete(s.assigned, fieldKey)
	s.state = StateCorrecting
	return nil
}

// Validate lists the required fields that still lack a mapped header, in
// configured field order. Empty means the session is eligible to commit.
func (s *Session) Validate() []string {
	missing := make([]string, 0)
	for _, field := range s.fields {
		if !field.Required {
			continue
		}
		if header, ok := s.assigned[field.Key]; !ok || header == "" {
			missing = append(missing, field.Key)
		}
	}
	return missing
}

// Commit freezes the mapping and returns it for execution. With required
// fields unmapped it returns a ValidationError and leaves the session
// correctable. Committing twice is illegal.
func (s *Session) Commit() (map[string]string, error) {
	if s.sheet == nil {
		return nil, ErrSelectionRequired
	}
	if s.state == StateCommitted {
		return nil, ErrAlreadyCommitted
	}
	if missing := s.Validate(); len(missing) > 0 {
		s.state = StateCorrecting
		return nil, &ValidationError{Missing: missing}
	}

	s.state = StateCommitted
	return s.Mapping(), nil
}

func (s *Session) hasHeader(header string) bool {
	for _, candidate := range s.sheet.Headers {
		if candidate == header {
			return true
		}
	}
	return false
}
