// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecute identifies the event that occurs before the
	// transport is invoked.
	//
	// When Client fires BeforeExecute, the execution's Method and
	// Endpoint are set, and nothing else.
	BeforeExecute Event = iota
	// AfterExecute identifies the event that occurs after the
	// transport produced output and the output was parsed.
	//
	// When Client fires AfterExecute, the execution's Raw, HeaderSize
	// and Response fields are set, and Err is nil. The client's last
	// response has already been replaced.
	AfterExecute
	// AfterExecuteError identifies the event that occurs after the
	// transport failed.
	//
	// When Client fires AfterExecuteError, the execution's Err field
	// is set to a *TransportError and Response is nil. The client's
	// last response is unchanged.
	AfterExecuteError
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecute",
	"AfterExecute",
	"AfterExecuteError",
}

// Events returns a slice containing all events which can occur during
// Client.Execute, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecute,
		AfterExecute,
		AfterExecuteError,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
