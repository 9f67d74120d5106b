package chat

import "errors"

var (
	// ErrSessionNotFound means the capability id matches no session.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrSessionClosed means the session is terminal and accepts nothing.
	ErrSessionClosed = errors.New("chat session is closed")
	// ErrEmptyMessage rejects blank message bodies before any storage write.
	ErrEmptyMessage = errors.New("message text is empty")
)
