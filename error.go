// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

import (
	"strconv"

	"github.com/gogama/curlx/errcode"
)

// A TransportError is returned by Client.Execute when the transport
// produced no output. It carries the transport's own error message and
// numeric error code verbatim; see package errcode for the meaning of
// the codes reported by the default transport.
type TransportError struct {
	Message string
	Code    int
}

func (err *TransportError) Error() string {
	return "curlx: transport error " + strconv.Itoa(err.Code) + ": " + err.Message
}

// Timeout reports whether the transport gave up because the configured
// timeout elapsed.
func (err *TransportError) Timeout() bool {
	return errcode.Code(err.Code) == errcode.OperationTimedout
}
