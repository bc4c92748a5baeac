// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

// A HandlerGroup holds one handler chain per event type. Install it in
// Client.Handlers to run custom code during Client.Execute.
//
// Every Execute runs exactly two chains: the BeforeExecute chain, then
// either the AfterExecute chain or the AfterExecuteError chain. All of
// them receive the same *Execution, so a BeforeExecute handler can leave
// state for its after-handler with Execution.SetValue.
//
// The zero value is an empty group ready to use.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type. It panics if h is nil or evt is not one of
// the values returned by Events.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("curlx: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// run calls the handlers installed for evt in the order they were
// pushed. Handlers run on the goroutine calling Execute, while the
// transport is idle, so a slow handler delays Execute's return.
func (g *HandlerGroup) run(evt Event, e *Execution) {
	i := int(evt)
	if i >= len(g.handlers) {
		return
	}
	for _, h := range g.handlers[i] {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during Client.Execute.
//
// Handlers must not call back into the Client that is executing: the
// Client is mid-request and not safe for reentrant use.
type Handler interface {
	Handle(Event, *Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *Execution) {
	f(evt, e)
}
