package mapping

import (
	"errors"
	"testing"

	"crmimport/importer"
	"crmimport/schema"
)

func leadFields() []schema.Field {
	return []schema.Field{
		{Key: "contactName", Label: "Name", Required: true},
		{Key: "email", Label: "Email Address", Required: true},
		{Key: "phone", Label: "Phone"},
	}
}

func singleSheetSource(headers []string) *importer.Source {
	return &importer.Source{
		FilePath: "leads.csv",
		Sheets: []importer.Sheet{
			{Name: "leads", Headers: headers},
		},
	}
}

func TestNewSession_SingleSheetProposesImmediately(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Full Name", "Email Address", "Telephone"}), leadFields())

	if session.State() != StateProposed {
		t.Fatalf("expected proposed state, got %s", session.State())
	}
	mapped := session.Mapping()
	if mapped["contactName"] != "Full Name" || mapped["email"] != "Email Address" || mapped["phone"] != "Telephone" {
		t.Fatalf("unexpected proposal: %v", mapped)
	}
	if missing := session.Validate(); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}

func TestSession_ValidateReportsMissingRequired(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Name"}), leadFields())

	missing := session.Validate()
	if len(missing) != 1 || missing[0] != "email" {
		t.Fatalf("expected missing [email], got %v", missing)
	}

	_, err := session.Commit()
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Missing) != 1 || validation.Missing[0] != "email" {
		t.Fatalf("expected ValidationError for [email], got %v", validation.Missing)
	}
	if session.State() != StateCorrecting {
		t.Fatalf("failed commit must leave the session correctable, got %s", session.State())
	}
}

func TestSession_UnassignMakesRequiredFieldReappear(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Full Name", "Email Address"}), leadFields())
	if missing := session.Validate(); len(missing) != 0 {
		t.Fatalf("expected complete proposal, got missing %v", missing)
	}

	if err := session.Unassign("email"); err != nil {
		t.Fatalf("unassign email: %v", err)
	}
	missing := session.Validate()
	if len(missing) != 1 || missing[0] != "email" {
		t.Fatalf("expected missing [email] after unassign, got %v", missing)
	}
}

func TestSession_AssignStealsHeaderFromPriorHolder(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Full Name", "Email Address"}), leadFields())

	// Reassigning a taken header clears the prior holder instead of failing.
	if err := session.Assign("phone", "Email Address"); err != nil {
		t.Fatalf("assign phone: %v", err)
	}

	mapped := session.Mapping()
	if mapped["phone"] != "Email Address" {
		t.Fatalf("phone: want %q, got %q", "Email Address", mapped["phone"])
	}
	if header, ok := mapped["email"]; ok {
		t.Fatalf("email should have lost its header, still holds %q", header)
	}
	if session.State() != StateCorrecting {
		t.Fatalf("expected correcting state, got %s", session.State())
	}

	seen := make(map[string]string, len(mapped))
	for key, header := range mapped {
		if previous, ok := seen[header]; ok {
			t.Fatalf("header %q held by both %s and %s", header, previous, key)
		}
		seen[header] = key
	}
}

func TestSession_AssignRejectsUnknownFieldAndHeader(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Full Name"}), leadFields())

	if err := session.Assign("nope", "Full Name"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if err := session.Assign("email", "Missing Column"); err == nil {
		t.Fatalf("expected error for header not present in sheet")
	}
}

func TestSession_MultiSheetRequiresSelection(t *testing.T) {
	t.Parallel()

	source := &importer.Source{
		FilePath: "orders.xlsx",
		Sheets: []importer.Sheet{
			{Name: "2024", Headers: []string{"Full Name", "Email Address"}},
			{Name: "2023", Headers: []string{"Kontakt", "E-Mail"}},
		},
	}
	session := NewSession(source, leadFields())

	if session.State() != StateAwaitingSheet {
		t.Fatalf("expected awaiting sheet, got %s", session.State())
	}
	if _, err := session.Headers(); !errors.Is(err, ErrSelectionRequired) {
		t.Fatalf("expected ErrSelectionRequired from Headers, got %v", err)
	}
	if err := session.Assign("email", "Email Address"); !errors.Is(err, ErrSelectionRequired) {
		t.Fatalf("expected ErrSelectionRequired from Assign, got %v", err)
	}
	if _, err := session.Commit(); !errors.Is(err, ErrSelectionRequired) {
		t.Fatalf("expected ErrSelectionRequired from Commit, got %v", err)
	}

	if err := session.SelectSheet("2024"); err != nil {
		t.Fatalf("select sheet: %v", err)
	}
	if session.State() != StateProposed {
		t.Fatalf("expected proposed state after selection, got %s", session.State())
	}
	headers, err := session.Headers()
	if err != nil {
		t.Fatalf("headers after selection: %v", err)
	}
	if len(headers) != 2 || headers[0] != "Full Name" {
		t.Fatalf("expected 2024 sheet headers, got %v", headers)
	}
}

func TestSession_SelectSheetRejectsUnknownName(t *testing.T) {
	t.Parallel()

	source := &importer.Source{
		Sheets: []importer.Sheet{
			{Name: "2024", Headers: []string{"Name"}},
			{Name: "2023", Headers: []string{"Name"}},
		},
	}
	session := NewSession(source, leadFields())

	if err := session.SelectSheet("2022"); err == nil {
		t.Fatalf("expected error for unknown sheet name")
	}
}

func TestSession_ChangingSheetDiscardsCorrections(t *testing.T) {
	t.Parallel()

	source := &importer.Source{
		Sheets: []importer.Sheet{
			{Name: "2024", Headers: []string{"Full Name", "Email Address", "Telephone"}},
			{Name: "2023", Headers: []string{"Full Name", "Email Address", "Telephone"}},
		},
	}
	session := NewSession(source, leadFields())
	if err := session.SelectSheet("2024"); err != nil {
		t.Fatalf("select sheet: %v", err)
	}
	if err := session.Unassign("phone"); err != nil {
		t.Fatalf("unassign phone: %v", err)
	}

	if err := session.SelectSheet("2023"); err != nil {
		t.Fatalf("change sheet: %v", err)
	}
	if session.State() != StateProposed {
		t.Fatalf("expected fresh proposal after sheet change, got %s", session.State())
	}
	if session.Mapping()["phone"] != "Telephone" {
		t.Fatalf("expected re-proposed phone mapping, got %v", session.Mapping())
	}
}

func TestSession_CommitFreezesMapping(t *testing.T) {
	t.Parallel()

	session := NewSession(singleSheetSource([]string{"Full Name", "Email Address"}), leadFields())

	mapped, err := session.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if session.State() != StateCommitted {
		t.Fatalf("expected committed state, got %s", session.State())
	}
	if mapped["email"] != "Email Address" {
		t.Fatalf("unexpected committed mapping: %v", mapped)
	}

	if _, err := session.Commit(); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("expected ErrAlreadyCommitted on second commit, got %v", err)
	}
	if err := session.Assign("phone", "Full Name"); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("expected ErrAlreadyCommitted from Assign, got %v", err)
	}
	if err := session.Unassign("email"); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("expected ErrAlreadyCommitted from Unassign, got %v", err)
	}
}
