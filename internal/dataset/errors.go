package dataset

import (
	"errors"
	"fmt"
)

// DataIntegrityError reports source data the unification cannot accept.
// It is fatal: the pipeline aborts before producing a table.
type DataIntegrityError struct {
	// Code identifies the error category.
	Code IntegrityCode

	// Message is a human-readable description.
	Message string

	// Source names the affected row set ("exposure", "direct", "measures", "regions").
	Source string

	// Category is the risk label or measure involved, if any.
	Category string

	// Key is the offending join key for DUPLICATE_KEY errors.
	Key *Key
}

// IntegrityCode categorizes data-integrity errors.
type IntegrityCode string

const (
	// ErrCodeMissingCategory indicates a required risk category has no rows.
	ErrCodeMissingCategory IntegrityCode = "MISSING_CATEGORY"

	// ErrCodeMissingMeasure indicates prevalence or incidence rows are absent.
	ErrCodeMissingMeasure IntegrityCode = "MISSING_MEASURE"

	// ErrCodeDuplicateKey indicates two rows share (location, sex, year) within one subset.
	ErrCodeDuplicateKey IntegrityCode = "DUPLICATE_KEY"

	// ErrCodeDuplicateRegion indicates a location mapped to more than one region.
	ErrCodeDuplicateRegion IntegrityCode = "DUPLICATE_REGION"

	// ErrCodeUnknownRegion indicates a region label outside the catalogue.
	ErrCodeUnknownRegion IntegrityCode = "UNKNOWN_REGION"

	// ErrCodeEmptySource indicates a row set with no rows at all.
	ErrCodeEmptySource IntegrityCode = "EMPTY_SOURCE"

	// ErrCodeEmptyResult indicates no tuple is present in every source.
	ErrCodeEmptyResult IntegrityCode = "EMPTY_RESULT"
)

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	switch {
	case e.Key != nil && e.Category != "":
		return fmt.Sprintf("%s: %s (source=%s, category=%s, key=%s)", e.Code, e.Message, e.Source, e.Category, e.Key)
	case e.Category != "":
		return fmt.Sprintf("%s: %s (source=%s, category=%s)", e.Code, e.Message, e.Source, e.Category)
	case e.Source != "":
		return fmt.Sprintf("%s: %s (source=%s)", e.Code, e.Message, e.Source)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDataIntegrityError returns true if err is or wraps a DataIntegrityError.
func IsDataIntegrityError(err error) bool {
	var de *DataIntegrityError
	return errors.As(err, &de)
}

// IsDuplicateKey returns true if err reports a duplicate join key.
func IsDuplicateKey(err error) bool {
	return hasCode(err, ErrCodeDuplicateKey)
}

// IsMissingCategory returns true if err reports an absent risk category.
func IsMissingCategory(err error) bool {
	return hasCode(err, ErrCodeMissingCategory)
}

func hasCode(err error, code IntegrityCode) bool {
	var de *DataIntegrityError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewDuplicateKeyError creates a DataIntegrityError for a repeated join key.
func NewDuplicateKeyError(source, category string, key Key) *DataIntegrityError {
	return &DataIntegrityError{
		Code:     ErrCodeDuplicateKey,
		Message:  "join key appears more than once",
		Source:   source,
		Category: category,
		Key:      &key,
	}
}

// NewDuplicateRegionError creates a DataIntegrityError for a location listed twice in the region map.
func NewDuplicateRegionError(location string) *DataIntegrityError {
	return &DataIntegrityError{
		Code:     ErrCodeDuplicateRegion,
		Message:  fmt.Sprintf("location %q is mapped more than once", location),
		Source:   SourceRegions,
		Category: location,
	}
}
