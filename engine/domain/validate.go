package domain

import "strings"

// ValidateListing checks a normalized listing before it enters the dataset.
// A listing without a title is a malformed stub row; ingest skips those
// rather than aborting (the dataset carries a handful of them).
func ValidateListing(l Listing) error {
	if strings.TrimSpace(l.Title) == "" {
		return NewValidationError("title", l.Title, ErrMissingTitle)
	}
	if l.Price.Valid && l.Price.Float < 0 {
		return NewValidationError("price", l.Title, ErrNegativePrice)
	}
	return nil
}

// ValidateMode checks a display mode coming from an interaction event.
func ValidateMode(m Mode) error {
	if !ValidModes[m] {
		return NewValidationError("mode", string(m), ErrUnknownMode)
	}
	return nil
}

// ValidateColumn checks that col is a known column and a member of the
// chart's declared column set.
func ValidateColumn(col ColumnKey, set []ColumnKey) error {
	if !col.Valid() {
		return NewValidationError("column", string(col), ErrUnknownColumn)
	}
	if !ColumnIn(col, set) {
		return NewValidationError("column", string(col), ErrColumnNotValid)
	}
	return nil
}
