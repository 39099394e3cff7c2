package calendar

import "fmt"

// InputShapeError reports raw input that cannot be read as key→count pairs.
// Callers treat the subject as having no data.
type InputShapeError struct {
	Reason string
	Err    error
}

func (e *InputShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calendar input shape: %s: %s", e.Reason, e.Err)
	}
	return "calendar input shape: " + e.Reason
}

func (e *InputShapeError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports a count that is negative or not an integer.
type DataIntegrityError struct {
	Key    string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("calendar data integrity: key %q: %s", e.Key, e.Reason)
}

func shapeError(reason string, err error) error {
	return &InputShapeError{Reason: reason, Err: err}
}

func integrityError(key, format string, args ...any) error {
	return &DataIntegrityError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
