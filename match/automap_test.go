package match

import (
	"testing"

	"crmimport/schema"
)

func TestAutoMap_AssignsLeadColumns(t *testing.T) {
	t.Parallel()

	headers := []string{"Full Name", "Email Address", "Telephone"}
	fields := []schema.Field{
		{Key: "contactName", Label: "Name", Required: true},
		{Key: "email", Label: "Email Address", Required: true},
		{Key: "phone", Label: "Phone"},
	}

	mapped := NewMatcher().AutoMap(headers, fields)

	want := map[string]string{
		"contactName": "Full Name",
		"email":       "Email Address",
		"phone":       "Telephone",
	}
	if len(mapped) != len(want) {
		t.Fatalf("expected %d assignments, got %v", len(want), mapped)
	}
	for key, header := range want {
		if mapped[key] != header {
			t.Fatalf("field %s: want %q, got %q", key, header, mapped[key])
		}
	}
}

func TestAutoMap_LeavesUnmatchableFieldUnmapped(t *testing.T) {
	t.Parallel()

	headers := []string{"Name"}
	fields := []schema.Field{
		{Key: "contactName", Label: "Name", Required: true},
		{Key: "email", Label: "Email Address", Required: true},
	}

	mapped := NewMatcher().AutoMap(headers, fields)

	if mapped["contactName"] != "Name" {
		t.Fatalf("contactName: want %q, got %q", "Name", mapped["contactName"])
	}
	if header, ok := mapped["email"]; ok {
		t.Fatalf("email should stay unmapped, got %q", header)
	}
}

func TestAutoMap_NeverAssignsOneHeaderTwice(t *testing.T) {
	t.Parallel()

	headers := []string{"Email", "Notes"}
	fields := []schema.Field{
		{Key: "email", Label: "Email", Required: true},
		{Key: "secondaryEmail", Label: "Email"},
	}

	mapped := NewMatcher().AutoMap(headers, fields)

	seen := make(map[string]string, len(mapped))
	for key, header := range mapped {
		if previous, ok := seen[header]; ok {
			t.Fatalf("header %q assigned to both %s and %s", header, previous, key)
		}
		seen[header] = key
	}
	if mapped["email"] != "Email" {
		t.Fatalf("email: want %q, got %q", "Email", mapped["email"])
	}
}

func TestAutoMap_RejectsBelowThreshold(t *testing.T) {
	t.Parallel()

	headers := []string{"Completely Unrelated"}
	fields := []schema.Field{{Key: "email", Label: "Email Address", Required: true}}

	mapped := NewMatcher().AutoMap(headers, fields)

	if header, ok := mapped["email"]; ok {
		t.Fatalf("expected no assignment below threshold, got %q", header)
	}
}

func TestAutoMap_SkipsBlankHeaders(t *testing.T) {
	t.Parallel()

	headers := []string{"", "  ", "---", "Email Address"}
	fields := []schema.Field{{Key: "email", Label: "Email Address", Required: true}}

	mapped := NewMatcher().AutoMap(headers, fields)

	if mapped["email"] != "Email Address" {
		t.Fatalf("email: want %q, got %q", "Email Address", mapped["email"])
	}
	if len(mapped) != 1 {
		t.Fatalf("expected a single assignment, got %v", mapped)
	}
}

func TestAutoMap_TieBreaksOnColumnOrder(t *testing.T) {
	t.Parallel()

	// Both columns contain the expected label equally well; the first in
	// column order wins.
	headers := []string{"Phone (Home)", "Phone (Work)"}
	fields := []schema.Field{{Key: "phone", Label: "Phone"}}

	mapped := NewMatcher().AutoMap(headers, fields)

	if mapped["phone"] != "Phone (Home)" {
		t.Fatalf("phone: want first column on tie, got %q", mapped["phone"])
	}
}

func TestAutoMap_RequiredFieldsGetPriority(t *testing.T) {
	t.Parallel()

	// One header fits both fields; ordering required fields first makes the
	// required one consume it.
	headers := []string{"Reference"}
	fields := schema.OrderForMapping([]schema.Field{
		{Key: "internalRef", Label: "Reference"},
		{Key: "doorRef", Label: "Reference", Required: true},
	})

	mapped := NewMatcher().AutoMap(headers, fields)

	if mapped["doorRef"] != "Reference" {
		t.Fatalf("doorRef: want %q, got %q", "Reference", mapped["doorRef"])
	}
	if header, ok := mapped["internalRef"]; ok {
		t.Fatalf("internalRef should stay unmapped, got %q", header)
	}
}
