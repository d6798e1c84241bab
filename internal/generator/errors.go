package generator

import (
	"errors"

	"github.com/user/manifest-service/internal/repository"
)

// InvalidURLMessage is the user-facing text written to State.Error for a rejected URL.
const InvalidURLMessage = "Please provide a URL."

var ErrInvalidURL = errors.New(InvalidURLMessage)

// FetchError wraps a failed call to the manifest service.
// Message is the text that was written to State.Error.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return "get manifest information: " + e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// fetchErrorMessage derives the user-facing message for a failed fetch.
// Without any response to inspect, the transport error text is used.
func fetchErrorMessage(err error) string {
	var respErr *repository.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Message()
	}
	return err.Error()
}
