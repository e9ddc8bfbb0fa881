package apiclient

import "fmt"

// Kind classifies an APIError.
type Kind int

const (
	// KindHTTP is a non-2xx status, or a 2xx envelope with success=false.
	KindHTTP Kind = iota
	// KindTransport means the server could not be reached.
	KindTransport
	// KindMalformed is a 2xx response whose body is not the expected JSON.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return "http"
	}
}

// APIError is the normalized failure returned by every Client call.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Kind == KindHTTP && e.Status > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to staff in banners and command errors.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindTransport:
		return "Unable to connect to the admin API. Check your network connection and the configured base URL."
	case KindMalformed:
		return "The admin API is not responding correctly. Check that the backend server is running and accessible."
	default:
		return e.Message
	}
}
