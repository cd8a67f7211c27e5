package chat

import "errors"

// ErrInvalidRequest indicates a missing session key or user message.
// It is produced before any store or provider call.
var ErrInvalidRequest = errors.New("chat: invalid request")
