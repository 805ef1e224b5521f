package save

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRule means a stored rule key is not in the current catalogue.
	ErrMissingRule = errors.New("missing rule reference")
	// ErrDanglingReference means a stored craft id matched no loaded craft.
	ErrDanglingReference = errors.New("dangling craft reference")
	// ErrMalformedRecord means a record lacks a required key or holds an
	// ill-typed or out-of-range value.
	ErrMalformedRecord = errors.New("malformed record")
)

// MissingRuleError names the rule that could not be found.
type MissingRuleError struct {
	Kind string // "mission", "deployment", "ufo"
	Key  string
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrMissingRule, e.Kind, e.Key)
}

func (e *MissingRuleError) Unwrap() error { return ErrMissingRule }

// DanglingReferenceError names the site whose craft link was dropped.
type DanglingReferenceError struct {
	SiteID  int
	CraftID int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: mission site %d -> ufo %d", ErrDanglingReference, e.SiteID, e.CraftID)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

func malformed(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedRecord, key, fmt.Sprintf(format, args...))
}
