package types

import "errors"

// ErrSessionBusy is returned when a session already has a request in flight
var ErrSessionBusy = errors.New("a request for this session is already in progress")
