// Package form parses typed fields out of submitted form values. Every bad
// field is collected so the user sees all problems at once instead of only
// the first.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidInput is the sentinel all field errors unwrap to.
var ErrInvalidInput = errors.New("invalid input")

// FieldErrors maps field name to what is wrong with it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidInput
}

// Parser reads fields through a getter (c.FormValue, url.Values.Get, ...)
// and accumulates errors.
type Parser struct {
	get  func(name string) string
	errs FieldErrors
}

func New(get func(name string) string) *Parser {
	return &Parser{get: get, errs: FieldErrors{}}
}

func (p *Parser) fail(name, msg string) {
	p.errs[name] = msg
}

// String returns the trimmed field value. A required field that is empty is
// an error.
func (p *Parser) String(name string, required bool) string {
	v := strings.TrimSpace(p.get(name))
	if required && v == "" {
		p.fail(name, "required")
	}
	return v
}

// OneOf returns the trimmed field value and requires it to be one of the
// allowed values.
func (p *Parser) OneOf(name string, allowed ...string) string {
	v := strings.TrimSpace(p.get(name))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	p.fail(name, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	return v
}

// Int returns the field as an integer no smaller than min, or def when the
// field is absent.
func (p *Parser) Int(name string, def, min int) int {
	raw := strings.TrimSpace(p.get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, "must be an integer")
		return def
	}
	if v < min {
		p.fail(name, fmt.Sprintf("must be at least %d", min))
		return def
	}
	return v
}

// Uint returns the field as an id. Zero and non-numeric values are errors.
func (p *Parser) Uint(name string) uint {
	raw := strings.TrimSpace(p.get(name))
	if raw == "" {
		p.fail(name, "required")
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		p.fail(name, "must be a positive id")
		return 0
	}
	return uint(v)
}

// Fee returns the field as a non-negative decimal, or 0 when absent.
func (p *Parser) Fee(name string) float64 {
	raw := strings.TrimSpace(p.get(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(name, "must be a decimal number")
		return 0
	}
	if v < 0 {
		p.fail(name, "must not be negative")
		return 0
	}
	return v
}

// Err returns nil when every field parsed cleanly, otherwise the collected
// FieldErrors.
func (p *Parser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}
