// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import "github.com/gogama/curlx/errcode"

// A Handle is a stateful transport which performs one synchronous HTTP
// request at a time using the directives applied to it.
//
// A Handle is not safe for concurrent use. It is owned by exactly one
// user at a time, and that owner must call Close when done with it.
type Handle interface {
	// SetOpt applies a directive. Setting an option again overwrites
	// its previous value. Setting any of the verb options HTTPGet,
	// Post or Put overrides whichever verb was selected before.
	//
	// Setting an option to nil removes the directive, which restores
	// the option's default. This is the way to take back an unknown
	// option or a bad value: until removed or replaced, it makes every
	// Perform fail.
	//
	// SetOpt never fails. An unknown option or a value of the wrong
	// type is reported by the next call to Perform.
	SetOpt(opt Option, value interface{})

	// Perform executes the request described by the current
	// directives and blocks until it completes or fails.
	//
	// On success, the return value is the raw output: the response
	// header block (only if the Header option is true) immediately
	// followed by the response body. On failure, the return value is
	// nil and Errno and ErrMsg describe the failure.
	Perform() []byte

	// HeaderSize returns the length in bytes of the header block
	// received by the most recent Perform.
	HeaderSize() int

	// ResponseCode returns the HTTP status code received by the most
	// recent Perform, or zero if no response was received.
	ResponseCode() int

	// Errno returns the error code of the most recent Perform, or
	// errcode.OK if it succeeded.
	Errno() errcode.Code

	// ErrMsg returns a human readable description of the most recent
	// Perform failure, or the empty string if it succeeded.
	ErrMsg() string

	// Close releases the resources held by the handle. Calling Close
	// more than once is harmless; every Perform after Close fails.
	Close() error
}
