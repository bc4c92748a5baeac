// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlparts

import (
	urlpkg "net/url"
	"strconv"
	"strings"
)

// Parts is the decomposition of a URL string. The zero value is an
// empty URL.
//
// A string field that is empty is absent, except where a presence flag
// exists: a URL may carry an empty password ("u:@host"), an empty query
// ("/path?") or an empty fragment ("/path#"), and the separator is only
// reproduced when the flag is set.
type Parts struct {
	Scheme   string
	User     string
	Pass     string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string

	HasPass     bool
	HasQuery    bool
	HasFragment bool

	// Opaque is set for a URL with a scheme but no authority, such as
	// "mailto:a@b". Path then holds everything after the scheme and
	// String writes "scheme:" instead of "scheme://".
	Opaque bool
}

// Parse decomposes raw into its parts. An error is returned only if raw
// cannot be parsed as a URL at all, in which case the returned Parts is
// the zero value.
//
// A host and port given without a scheme, as in "localhost:8080/api",
// are split into Host and Port with an empty Scheme, rather than being
// read as scheme "localhost" followed by opaque data.
//
// Parse does not validate the result beyond what net/url does: a URL
// with no scheme or no host is decomposed without complaint.
func Parse(raw string) (Parts, error) {
	u, err := urlpkg.Parse(raw)
	if isHostPort(raw, u, err) {
		if v, vErr := urlpkg.Parse("//" + raw); vErr == nil && v.Host != "" {
			u, err = v, nil
		}
	}
	if err != nil {
		return Parts{}, err
	}

	p := Parts{
		Scheme:      u.Scheme,
		Path:        u.EscapedPath(),
		Query:       u.RawQuery,
		HasQuery:    u.RawQuery != "" || u.ForceQuery,
		Fragment:    u.EscapedFragment(),
		HasFragment: strings.Contains(raw, "#"),
	}
	if u.Opaque != "" {
		p.Path = u.Opaque
		p.Opaque = true
	}

	if u.User != nil {
		user, pass, hasPass := strings.Cut(u.User.String(), ":")
		p.User = user
		p.Pass = pass
		p.HasPass = hasPass
	}

	p.Host, p.Port = splitHostPort(u.Host)
	return p, nil
}

// isHostPort reports whether raw is a schemeless "host:port..." string
// which net/url either rejected or misread as "scheme:opaque".
func isHostPort(raw string, u *urlpkg.URL, err error) bool {
	if strings.HasPrefix(raw, "//") || strings.Contains(raw, "://") {
		return false
	}
	if err != nil {
		return true
	}
	return u.Opaque != "" && isPortPrefix(u.Opaque)
}

// isPortPrefix reports whether s is a decimal port, optionally followed
// by a path.
func isPortPrefix(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 0 && (i == len(s) || s[i] == '/')
}

// String reconstructs the URL string from the parts, emitting in order
// scheme "://" (or just ":" for an opaque URL), user, ":" pass, "@",
// host, ":" port, path, "?" query and "#" fragment. Absent parts and
// their separators are omitted. The "@" is present if either a user or
// a password is.
func (p Parts) String() string {
	var b strings.Builder
	if p.Scheme != "" {
		b.WriteString(p.Scheme)
		b.WriteByte(':')
		if !p.Opaque {
			b.WriteString("//")
		}
	}
	b.WriteString(p.User)
	if p.HasPass {
		b.WriteByte(':')
		b.WriteString(p.Pass)
	}
	if p.User != "" || p.HasPass {
		b.WriteByte('@')
	}
	b.WriteString(p.Host)
	if p.Port != "" {
		b.WriteByte(':')
		b.WriteString(p.Port)
	}
	b.WriteString(p.Path)
	if p.HasQuery {
		b.WriteByte('?')
		b.WriteString(p.Query)
	}
	if p.HasFragment {
		b.WriteByte('#')
		b.WriteString(p.Fragment)
	}
	return b.String()
}

// HasPort reports whether the parts carry an explicit port.
func (p Parts) HasPort() bool {
	return p.Port != ""
}

// PortNumber returns the explicit port as an integer, or zero if there
// is no port or it is not a decimal number.
func (p Parts) PortNumber() int {
	n, err := strconv.Atoi(p.Port)
	if err != nil {
		return 0
	}
	return n
}

// WithoutPort returns a copy of p with the port removed.
func (p Parts) WithoutPort() Parts {
	p.Port = ""
	return p
}

// Redacted returns the reconstructed URL string with any password
// replaced by "xxxxx".
func (p Parts) Redacted() string {
	if p.HasPass {
		p.Pass = "xxxxx"
	}
	return p.String()
}

// splitHostPort separates "host", "host:port" or "[ipv6]:port" into its
// host and port. IPv6 brackets stay on the host, and an empty port
// ("host:") is dropped as mandated by RFC 3986 Section 6.2.3.
func splitHostPort(hostport string) (host, port string) {
	i := strings.LastIndex(hostport, ":")
	if i < 0 || i < strings.LastIndex(hostport, "]") {
		return hostport, ""
	}
	return hostport[:i], hostport[i+1:]
}
