// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

import (
	"github.com/gogama/curlx/urlparts"
)

// A Printer writes formatted log lines. *log.Logger is a Printer.
type Printer interface {
	Printf(format string, v ...interface{})
}

// LogHandlers returns a handler group which writes one key=value line
// to p for every event. Passwords in the endpoint are redacted.
//
//	c := curlx.New("https://example.com")
//	c.Handlers = curlx.LogHandlers(log.New(os.Stderr, "", log.LstdFlags))
func LogHandlers(p Printer) *HandlerGroup {
	if p == nil {
		panic("curlx: nil printer")
	}

	g := &HandlerGroup{}
	g.PushBack(BeforeExecute, HandlerFunc(func(evt Event, e *Execution) {
		p.Printf("curlx: event=%s method=%s endpoint=%q", evt, e.Method, redact(e.Endpoint))
	}))
	g.PushBack(AfterExecute, HandlerFunc(func(evt Event, e *Execution) {
		p.Printf("curlx: event=%s status=%d header_bytes=%d body_bytes=%d duration=%s",
			evt, e.Response.StatusCode(), e.HeaderSize, len(e.Response.Body()), e.Duration())
	}))
	g.PushBack(AfterExecuteError, HandlerFunc(func(evt Event, e *Execution) {
		code, msg := -1, e.Err.Error()
		if tErr, ok := e.Err.(*TransportError); ok {
			code, msg = tErr.Code, tErr.Message
		}
		p.Printf("curlx: event=%s code=%d message=%q duration=%s", evt, code, msg, e.Duration())
	}))
	return g
}

func redact(endpoint string) string {
	p, err := urlparts.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return p.Redacted()
}
