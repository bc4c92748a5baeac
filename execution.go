// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

import (
	"context"
	"time"
)

// An Execution represents the state of a single Client.Execute call.
// It is handed to event handlers as the call progresses.
//
// Event handlers may set values on an Execution using its SetValue
// method and read them back using the Value method, but should treat
// the exported fields as read-only.
type Execution struct {
	// Method is the verb most recently selected with SetMethod, or GET
	// if SetMethod was never called.
	Method string

	// Endpoint is the URL most recently given to SetEndpoint, exactly
	// as it was given.
	Endpoint string

	// Start is the time the transport was invoked. It is the zero
	// value during BeforeExecute.
	Start time.Time

	// End is the time the transport returned. It is the zero value
	// until the transport returns.
	End time.Time

	// Raw is the raw transport output. It is nil unless the execution
	// succeeded.
	Raw []byte

	// HeaderSize is the header block length reported by the transport.
	HeaderSize int

	// Response is the parsed response. It is nil unless the execution
	// succeeded.
	Response *Response

	// Err is the error the execution ended with, if any. Whenever Err
	// is non-nil, it has the type *TransportError.
	Err error

	data context.Context
}

// Duration returns the time spent in the transport.
//
// If the transport has not been invoked yet, the duration is zero. If
// the execution has ended, the duration is End minus Start. Otherwise
// it is the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the transport has been invoked.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the transport has returned.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// SetValue allows event handlers to store arbitrary data in the
// execution, for example to pass state from a BeforeExecute handler to
// an AfterExecute handler.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}

// Timeout reports whether the execution failed because the transport's
// timeout elapsed.
func (e *Execution) Timeout() bool {
	if tErr, ok := e.Err.(*TransportError); ok {
		return tErr.Timeout()
	}
	return false
}
