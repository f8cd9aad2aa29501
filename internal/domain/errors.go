package domain

import (
	"errors"
	"fmt"
	"time"
)

// NoNarrativeMessage is shown when a region has no narrative yet.
const NoNarrativeMessage = "No narrative yet for this region. Try another region or refresh later."

// APIError is a non-success response from the narrative service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %d: %s", e.Status, e.Message)
}

// NotFoundError reports a 404 from the narrative service: the region exists
// but no narrative has been generated for it yet.
type NotFoundError struct {
	RegionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("API 404: no narrative for region %q", e.RegionID)
}

// TimeoutError reports a request that exceeded its deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Request timeout after %dms", e.Timeout.Milliseconds())
}

// MalformedResponseError reports a success response whose body could not be
// decoded as a narrative record.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTimeout reports whether err is, or wraps, a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// UserMessage converts a pipeline error into the message shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return NoNarrativeMessage
	default:
		return err.Error()
	}
}
