package scoponeerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnexpectedCloseIsClosed(t *testing.T) {
	if !errors.Is(ErrUnexpectedClose, ErrClosed) {
		t.Fatal("ErrUnexpectedClose should wrap ErrClosed")
	}
	if !IsTransport(fmt.Errorf("read: %w", ErrUnexpectedClose)) {
		t.Error("a wrapped unexpected close is a transport error")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("dial: %w", ErrConnection), "Connection to the server failed"},
		{ErrUnexpectedClose, "Connection to the server has been closed"},
		{ErrGenericConnection, "An error in the connection with the server occurred"},
		{ErrAmbiguousCapture, ""},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if IsTransport(ErrMoreThanOneOpenGame) {
		t.Error("an invariant violation is not a transport error")
	}
}
