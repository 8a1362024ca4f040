package result

import "fmt"

// Subject names what an InvalidError is about.
type Subject string

const (
	SubjectSchema     Subject = "form schema"
	SubjectSubmission Subject = "submission"
)

// InvalidError is returned by the assert style entry points after a full
// validation pass found errors. It carries the complete error map.
type InvalidError struct {
	Subject Subject
	Result  *Result
}

// Error renders the subject followed by the serialised error map.
func (e *InvalidError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Subject, e.Result.String())
}

// Check returns nil when res is valid, otherwise an *InvalidError.
func Check(subject Subject, res *Result) error {
	if res.IsValid() {
		return nil
	}
	return &InvalidError{Subject: subject, Result: res}
}
