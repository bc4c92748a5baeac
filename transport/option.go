// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"strconv"
	"strings"
)

// An Option identifies a transport directive set with Handle.SetOpt.
//
// The value types listed on each option are the ones the HTTP handle
// accepts. Integers may be given as any Go integer type or a decimal
// string, booleans as bool, an integer (non-zero means true) or a
// string understood by strconv.ParseBool. A list of strings may also be
// given as []interface{}, as decoded from YAML or JSON.
type Option int

const (
	// URL is the request URL (string).
	URL Option = iota + 1
	// Port overrides the port of the URL (integer). Zero means use the
	// port in the URL, or the scheme's default port.
	Port
	// HTTPGet selects the GET verb when true (boolean).
	HTTPGet
	// Post selects the POST verb when true (boolean).
	Post
	// Put selects the PUT verb when true (boolean).
	Put
	// CustomRequest replaces the verb selected by HTTPGet, Post or Put
	// with an arbitrary method name (string). Empty restores it.
	CustomRequest
	// Timeout is the maximum number of seconds the whole request may
	// take (integer). Zero means no timeout.
	Timeout
	// ConnectTimeout is the maximum number of seconds establishing the
	// connection may take (integer). Zero means no separate limit.
	ConnectTimeout
	// Header includes the response header block in front of the body
	// in the output of Perform (boolean).
	Header
	// PostFields is the request body (string or []byte). Setting it
	// selects the POST verb unless a verb was chosen explicitly.
	PostFields
	// HTTPHeader is a list of extra request header lines of the form
	// "Name: value" ([]string, or a single string). A line "Name:"
	// with no value removes the header.
	HTTPHeader
	// UserAgent sets the User-Agent request header (string).
	UserAgent
	// Referer sets the Referer request header (string).
	Referer
	// HTTP2 enables HTTP/2 for https URLs (boolean).
	HTTP2

	optionSentinel
)

var optionNames = [...]string{
	URL:            "URL",
	Port:           "PORT",
	HTTPGet:        "HTTPGET",
	Post:           "POST",
	Put:            "PUT",
	CustomRequest:  "CUSTOMREQUEST",
	Timeout:        "TIMEOUT",
	ConnectTimeout: "CONNECTTIMEOUT",
	Header:         "HEADER",
	PostFields:     "POSTFIELDS",
	HTTPHeader:     "HTTPHEADER",
	UserAgent:      "USERAGENT",
	Referer:        "REFERER",
	HTTP2:          "HTTP2",
}

// Options returns all options known to this package, in declaration
// order.
func Options() []Option {
	opts := make([]Option, 0, int(optionSentinel)-1)
	for opt := URL; opt < optionSentinel; opt++ {
		opts = append(opts, opt)
	}
	return opts
}

// Known reports whether opt is one of the options declared in this
// package.
func (opt Option) Known() bool {
	return opt >= URL && opt < optionSentinel
}

// String returns the name of the option, for example "TIMEOUT". An
// unknown option is rendered as "OPTION(n)".
func (opt Option) String() string {
	if opt.Known() {
		return optionNames[opt]
	}
	return "OPTION(" + strconv.Itoa(int(opt)) + ")"
}

// ParseOption looks up an option by name. The match is case-insensitive
// and a "CURLOPT_" prefix is ignored, so "timeout", "TIMEOUT" and
// "CURLOPT_TIMEOUT" all name Timeout.
func ParseOption(name string) (Option, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "CURLOPT_")
	for _, opt := range Options() {
		if optionNames[opt] == name {
			return opt, true
		}
	}
	return 0, false
}
