package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"2024-01-15", true},
		{"", true},
		{"2024/01/15", false},
		{"2024-1-15", false},
		{"2024-13-01", false},
		{"2024-01-15T00:00", false},
		{"not-a-date", false},
	}
	for _, c := range cases {
		ve := &ValidationErrors{}
		ValidateDate(ve, "date", c.value)
		if ve.HasErrors() == c.ok {
			t.Errorf("ValidateDate(%q): hasErrors=%v, want ok=%v", c.value, ve.HasErrors(), c.ok)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"2024-01", true},
		{"", true},
		{"2024-1", false},
		{"2024-13", false},
		{"2024-01-15", false},
	}
	for _, c := range cases {
		ve := &ValidationErrors{}
		ValidateMonth(ve, "month", c.value)
		if ve.HasErrors() == c.ok {
			t.Errorf("ValidateMonth(%q): hasErrors=%v, want ok=%v", c.value, ve.HasErrors(), c.ok)
		}
	}
}

func TestValidateID(t *testing.T) {
	for _, bad := range []string{"-1", "abc", "0", "", "1.5"} {
		ve := &ValidationErrors{}
		ValidateID(ve, "id", bad)
		if !ve.HasErrors() {
			t.Errorf("ValidateID(%q): expected error", bad)
		}
	}
	ve := &ValidationErrors{}
	ValidateID(ve, "id", "42")
	if ve.HasErrors() {
		t.Errorf("ValidateID(\"42\"): unexpected error %v", ve.Error())
	}
}

func TestParseID(t *testing.T) {
	if got := ParseID("42"); got != 42 {
		t.Errorf("ParseID(\"42\") = %d, want 42", got)
	}
	for _, bad := range []string{"-1", "abc", "0", ""} {
		if got := ParseID(bad); got != 0 {
			t.Errorf("ParseID(%q) = %d, want 0", bad, got)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	ok := 12.5
	neg := -1.0
	nan := math.NaN()
	inf := math.Inf(1)

	ve := &ValidationErrors{}
	ValidatePrice(ve, "price", nil)
	ValidatePrice(ve, "price", &ok)
	if ve.HasErrors() {
		t.Errorf("valid prices rejected: %v", ve.Error())
	}

	for name, v := range map[string]*float64{"negative": &neg, "nan": &nan, "inf": &inf} {
		ve := &ValidationErrors{}
		ValidatePrice(ve, "price", v)
		if !ve.HasErrors() {
			t.Errorf("%s price accepted", name)
		}
	}
}

func TestValidateImagePath(t *testing.T) {
	for _, bad := range []string{
		"../etc/passwd",
		"a/../../b.jpg",
		"/absolute/path.jpg",
		"\\windows\\path.jpg",
		"c:\\photos\\a.jpg",
		"photo|name.jpg",
		"photo;rm.jpg",
		"photo\nname.jpg",
	} {
		ve := &ValidationErrors{}
		ValidateImagePath(ve, "image_path", bad)
		if !ve.HasErrors() {
			t.Errorf("ValidateImagePath(%q): expected error", bad)
		}
	}
	for _, good := range []string{"", "heads/123.jpg", "photo name.png"} {
		ve := &ValidationErrors{}
		ValidateImagePath(ve, "image_path", good)
		if ve.HasErrors() {
			t.Errorf("ValidateImagePath(%q): unexpected error %v", good, ve.Error())
		}
	}
}

func TestSanitizeTextStripsSQLTokens(t *testing.T) {
	out := SanitizeText("nice doll; DROP TABLE users--")
	for _, tok := range []string{";", "--", "DROP", "drop"} {
		if strings.Contains(out, tok) {
			t.Errorf("sanitized output still contains %q: %q", tok, out)
		}
	}
}

func TestSanitizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"plain notes about a doll",
		"sel;ect nested tokens",
		"selselectect",
		"quotes ' and \" everywhere",
		"",
	}
	for _, in := range inputs {
		once := SanitizeText(in)
		twice := SanitizeText(once)
		if once != twice {
			t.Errorf("SanitizeText not idempotent on %q: %q != %q", in, once, twice)
		}
	}
}

func TestValidationErrorsAccumulate(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "name", "  ")
	ValidateEnum(ve, "ownership_status", "stolen", ValidOwnershipStatuses)
	if len(ve.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(ve.Errors), ve.Error())
	}
	if !strings.Contains(ve.Error(), "name") || !strings.Contains(ve.Error(), "ownership_status") {
		t.Errorf("combined message missing fields: %q", ve.Error())
	}
}
