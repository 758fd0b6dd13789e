package mqtt

import "errors"

// ErrNotConnected is returned when a publish or subscribe is attempted on a
// client whose broker connection is gone.
var ErrNotConnected = errors.New("not connected to broker")
