package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindTransport: the request never got a response (refused, DNS, cancelled).
	KindTransport Kind = iota
	// KindServer: the backend answered with a non-2xx status.
	KindServer
	// KindDecode: the response body was not the JSON we expected.
	KindDecode
	// KindEncode: the request body could not be marshalled.
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MsgUnexpectedData is reported for every non-2xx response. The body is
// never parsed for a better message.
const MsgUnexpectedData = "Did not receive expected data"

// Error is the only error type Client returns. Error() is the message meant
// for the user; Kind and Status are there for callers that want more.
type Error struct {
	Kind    Kind
	Method  string
	URL     string
	Status  int // HTTP status for KindServer, zero otherwise
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Message collapses err into the string shown to the user. A nil error
// yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
