package form

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func parserFor(values url.Values) *Parser {
	return New(values.Get)
}

func TestParserValidFields(t *testing.T) {
	p := parserFor(url.Values{
		"name":         {" Alice "},
		"record_type":  {"team"},
		"site":         {"3"},
		"person_count": {"2"},
		"highway_fee":  {"10.5"},
	})

	if got := p.String("name", true); got != "Alice" {
		t.Errorf("String = %q, want %q", got, "Alice")
	}
	if got := p.OneOf("record_type", "individual", "team"); got != "team" {
		t.Errorf("OneOf = %q, want %q", got, "team")
	}
	if got := p.Uint("site"); got != 3 {
		t.Errorf("Uint = %d, want 3", got)
	}
	if got := p.Int("person_count", 1, 1); got != 2 {
		t.Errorf("Int = %d, want 2", got)
	}
	if got := p.Fee("highway_fee"); got != 10.5 {
		t.Errorf("Fee = %v, want 10.5", got)
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err = %v, want nil", err)
	}
}

func TestParserDefaults(t *testing.T) {
	p := parserFor(url.Values{})

	if got := p.Int("person_count", 1, 1); got != 1 {
		t.Errorf("absent Int = %d, want default 1", got)
	}
	if got := p.Fee("parking_fee"); got != 0 {
		t.Errorf("absent Fee = %v, want 0", got)
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err = %v, want nil", err)
	}
}

func TestParserCollectsEveryInvalidField(t *testing.T) {
	p := parserFor(url.Values{
		"record_type":  {"squad"},
		"site":         {"abc"},
		"person_count": {"zero"},
		"highway_fee":  {"-3"},
		"parking_fee":  {"lots"},
	})

	p.String("name", true)
	p.OneOf("record_type", "individual", "team")
	p.Uint("site")
	p.Int("person_count", 1, 1)
	p.Fee("highway_fee")
	p.Fee("parking_fee")

	err := p.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error does not unwrap to ErrInvalidInput: %v", err)
	}

	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("error is not FieldErrors: %T", err)
	}
	for _, name := range []string{"name", "record_type", "site", "person_count", "highway_fee", "parking_fee"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing error for field %q in %v", name, fields)
		}
	}
	if !strings.HasPrefix(err.Error(), "invalid input: ") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestParserRejectsZeroID(t *testing.T) {
	p := parserFor(url.Values{"site": {"0"}})
	p.Uint("site")
	if p.Err() == nil {
		t.Error("expected zero id to be rejected")
	}
}

func TestParserRejectsTooSmallInt(t *testing.T) {
	p := parserFor(url.Values{"person_count": {"0"}})
	p.Int("person_count", 1, 1)
	if p.Err() == nil {
		t.Error("expected person_count below 1 to be rejected")
	}
}
