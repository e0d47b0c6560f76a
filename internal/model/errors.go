package model

import "fmt"

// The four failure modes a single request can hit. All of them are
// recoverable at the HTTP boundary: handlers translate them into JSON
// error responses and the process keeps serving.

// DecodeError reports image bytes that could not be decoded into a
// 3-channel raster.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidCategoryError reports a category string outside the closed
// enumeration. No model lookup happens for these.
type InvalidCategoryError struct {
	Name string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q", e.Name)
}

// ModelNotLoadedError reports a valid category whose checkpoint was
// missing at startup. Distinct from InvalidCategoryError so partial
// deployments are observable, not fatal.
type ModelNotLoadedError struct {
	Category Category
}

func (e *ModelNotLoadedError) Error() string {
	return fmt.Sprintf("model for %s not loaded", e.Category)
}

// ValidationError reports a missing or malformed required request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field %s", e.Field)
}
