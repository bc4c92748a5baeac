// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

import (
	"strings"
)

// A Response is the parsed result of a successful Client.Execute. It
// is immutable: the accessors return copies of the underlying data.
type Response struct {
	statusCode int
	headers    map[string]string
	body       []byte
}

// NewResponse returns a Response with the given parts. The header map
// and body are copied.
func NewResponse(statusCode int, headers map[string]string, body []byte) *Response {
	r := &Response{
		statusCode: statusCode,
		headers:    make(map[string]string, len(headers)),
		body:       append([]byte(nil), body...),
	}
	for name, value := range headers {
		r.headers[name] = value
	}
	return r
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Headers returns a copy of the header mapping. Names appear exactly as
// received; if a name was received more than once, the value is the
// last one.
func (r *Response) Headers() map[string]string {
	h := make(map[string]string, len(r.headers))
	for name, value := range r.headers {
		h[name] = value
	}
	return h
}

// Header returns the value of the named header, or the empty string if
// there is none. An exact name match is preferred; failing that, the
// name is matched case-insensitively.
func (r *Response) Header(name string) string {
	if value, ok := r.headers[name]; ok {
		return value
	}
	for n, value := range r.headers {
		if strings.EqualFold(n, name) {
			return value
		}
	}
	return ""
}

// Body returns a copy of the response body.
func (r *Response) Body() []byte {
	return append([]byte(nil), r.body...)
}

// parseResponse splits the raw transport output into a header block of
// headerSize bytes and the body which follows it.
//
// This only works if raw holds exactly one header block immediately
// followed by the body. A proxy which adds its own header block, or an
// informational 1xx response passed through by the transport, makes the
// offset point at the wrong place.
func parseResponse(raw []byte, headerSize, statusCode int) *Response {
	if headerSize < 0 {
		headerSize = 0
	} else if headerSize > len(raw) {
		headerSize = len(raw)
	}

	headers := make(map[string]string)
	for _, line := range strings.Split(string(raw[:headerSize]), "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[name] = strings.TrimSpace(value)
	}

	return &Response{
		statusCode: statusCode,
		headers:    headers,
		body:       append([]byte(nil), raw[headerSize:]...),
	}
}
