package errors

import (
	"errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"no cause", New(ErrCodeInvalidQuery, "bad segment %q", "a..b"), `INVALID_QUERY: bad segment "a..b"`},
		{"cause appended", Wrap(ErrCodeLayout, cause, "layout 3 nodes"), "LAYOUT_FAILED: layout 3 nodes: unexpected EOF"},
		{"cause already in message", InvalidJSON(cause), "INVALID_JSON: Invalid JSON: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("graphviz exited")
	err := Wrap(ErrCodeLayout, cause, "layout failed")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidJSON, "test"),
			code:     ErrCodeInvalidJSON,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidJSON, "test"),
			code:     ErrCodeLayout,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeLayout, New(ErrCodeInvalidGraph, "inner"), "outer"),
			code:     ErrCodeLayout,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidJSON,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidJSON,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeSessionNotFound, "test"), ErrCodeSessionNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeEmptyInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWrapMessageOmitsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidInput, cause, "invalid search request")

	if got, want := err.Error(), "INVALID_INPUT: invalid search request: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := UserMessage(err); got != "invalid search request" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got, want := Detail(err), "invalid search request: unexpected EOF"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
	if got, want := Detail(InvalidJSON(cause)), "Invalid JSON: unexpected EOF"; got != want {
		t.Errorf("Detail(InvalidJSON) = %q, want %q", got, want)
	}
	if got := Detail(New(ErrCodeNotFound, "gone")); got != "gone" {
		t.Errorf("Detail(New) = %q", got)
	}
}

func TestInvalidJSON(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := InvalidJSON(cause)

	if err.Code != ErrCodeInvalidJSON {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidJSON)
	}
	if got, want := UserMessage(err), "Invalid JSON: unexpected end of JSON input"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("InvalidJSON should wrap its cause")
	}
}
