package rx

import "errors"

// ErrFraming indicates a frame whose stop bit was sampled low.
var ErrFraming = errors.New("framing error")
