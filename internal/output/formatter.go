// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package output formats curlx responses and errors for the terminal.
package output

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gogama/curlx"
)

// Formatter renders responses and errors as text.
type Formatter struct {
	scheme         *ColorScheme
	includeHeaders bool
}

// NewFormatter creates a formatter. If includeHeaders is false, only the
// response body is rendered, as curl does without -i.
func NewFormatter(includeHeaders, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}

	return &Formatter{
		scheme:         scheme,
		includeHeaders: includeHeaders,
	}
}

// FormatResponse renders r. With headers included, the output is a
// status line, the headers sorted by name, a blank line and the body.
func (f *Formatter) FormatResponse(r *curlx.Response) string {
	var sb strings.Builder

	if f.includeHeaders {
		code := r.StatusCode()
		status := fmt.Sprintf("HTTP %d %s", code, http.StatusText(code))
		sb.WriteString(f.scheme.status(code).Sprint(strings.TrimSpace(status)))
		sb.WriteString("\n")

		headers := r.Headers()
		names := make([]string, 0, len(headers))
		for name := range headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(f.scheme.HeaderKey.Sprint(name))
			sb.WriteString(": ")
			sb.WriteString(f.scheme.HeaderValue.Sprint(headers[name]))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.Write(r.Body())
	return sb.String()
}

// FormatError renders an error from Client.Execute. Transport errors are
// shown with their code in curl's style, "curlx: (7) message".
func (f *Formatter) FormatError(err error) string {
	var tErr *curlx.TransportError
	if errors.As(err, &tErr) {
		return f.scheme.Error.Sprintf("curlx: (%d) %s", tErr.Code, tErr.Message) + "\n"
	}
	return f.scheme.Error.Sprint(err.Error()) + "\n"
}
