package scoponeerrors

import "errors"

// Transport errors. These are the categories shown to the user; they are
// never retried by the engine.
var (
	ErrConnection        = errors.New("connection to the server failed")
	ErrClosed            = errors.New("connection to the server has been closed")
	ErrGenericConnection = errors.New("an error in the connection with the server occurred")
)

// ErrUnexpectedClose is raised when the server side closes the connection
// without the client having asked for it. It wraps ErrClosed.
var ErrUnexpectedClose = &wrapped{msg: "websocket connection closed unexpectedly", cause: ErrClosed}

// Local precondition and invariant violations. Shared by engine and ws to
// avoid circular imports.
var (
	ErrAlreadyConnected        = errors.New("websocket server already connected")
	ErrNotConnected            = errors.New("not connected to the server")
	ErrNoGame                  = errors.New("game name not set")
	ErrAmbiguousCapture        = errors.New("there is more than one choice of cards to take")
	ErrMoreThanOneOpenGame     = errors.New("player is playing more than one game which is not closed")
	ErrMoreThanOneObservedGame = errors.New("player is observing more than one game which is not closed")
	ErrMalformedMessage        = errors.New("malformed message from server")
	ErrSendBufferFull          = errors.New("outbound buffer full")
	ErrTerminated              = errors.New("engine terminated, create a new one to reconnect")
)

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }

// IsTransport reports whether err belongs to one of the transport categories.
func IsTransport(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, ErrClosed) || errors.Is(err, ErrGenericConnection)
}

// UserMessage returns the text to display for a transport error, or "" for
// errors that are not meant for the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrConnection):
		return "Connection to the server failed"
	case errors.Is(err, ErrClosed):
		return "Connection to the server has been closed"
	case errors.Is(err, ErrGenericConnection):
		return "An error in the connection with the server occurred"
	default:
		return ""
	}
}
