// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/http2"

	"github.com/gogama/curlx/errcode"
	"github.com/gogama/curlx/urlparts"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// HTTP is the default Handle. It performs requests with an HTTPDoer
// and renders each response back into raw form: the status line and
// header fields, a blank line, then the body.
//
// Responses are fully buffered. Redirects are not followed by the
// HTTPDoer created by NewHTTP; a 3xx response is returned as-is.
type HTTP struct {
	doer  HTTPDoer
	owned *http.Transport
	h2    bool

	opts map[Option]interface{}
	verb Option

	connectTimeout time.Duration
	closed         bool

	headerSize int
	code       int
	errno      errcode.Code
	errmsg     string
}

// NewHTTP returns an HTTP handle which owns a dedicated connection
// transport. Close releases that transport's idle connections.
func NewHTTP() *HTTP {
	h := &HTTP{
		opts: make(map[Option]interface{}),
	}
	h.owned = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           h.dial,
		MaxIdleConns:          1,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	h.doer = &http.Client{
		Transport: h.owned,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return h
}

// NewHTTPWithDoer returns an HTTP handle which sends requests using d.
// The handle does not own d: Close does not affect it, and the
// ConnectTimeout and HTTP2 options are rejected because they configure
// a connection transport the handle does not control.
func NewHTTPWithDoer(d HTTPDoer) *HTTP {
	if d == nil {
		panic("curlx/transport: nil doer")
	}
	return &HTTP{
		doer: d,
		opts: make(map[Option]interface{}),
	}
}

// SetOpt applies a directive. See Handle.
func (h *HTTP) SetOpt(opt Option, value interface{}) {
	if value == nil {
		delete(h.opts, opt)
		if opt == h.verb {
			h.verb = 0
		}
		return
	}
	h.opts[opt] = value
	switch opt {
	case HTTPGet, Post, Put:
		h.verb = opt
	}
}

// HeaderSize returns the header block length of the last response.
func (h *HTTP) HeaderSize() int { return h.headerSize }

// ResponseCode returns the status code of the last response.
func (h *HTTP) ResponseCode() int { return h.code }

// Errno returns the error code of the last Perform.
func (h *HTTP) Errno() errcode.Code { return h.errno }

// ErrMsg returns the error message of the last Perform.
func (h *HTTP) ErrMsg() string { return h.errmsg }

// Close releases idle connections held by an owned transport and marks
// the handle closed.
func (h *HTTP) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.owned != nil {
		h.owned.CloseIdleConnections()
	}
	return nil
}

// Perform sends the request described by the current directives. See
// Handle.
func (h *HTTP) Perform() []byte {
	h.headerSize, h.code = 0, 0
	h.errno, h.errmsg = errcode.OK, ""

	if h.closed {
		return h.fail(errcode.New(errcode.BadFunctionArgument, "handle is closed"))
	}
	for opt := range h.opts {
		if !opt.Known() {
			return h.fail(errcode.New(errcode.UnknownOption, "unknown option "+opt.String()))
		}
	}

	req, timeout, err := h.request()
	if err != nil {
		return h.fail(err)
	}
	if err = h.configure(); err != nil {
		return h.fail(err)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := h.doer.Do(req.WithContext(ctx))
	if err != nil {
		return h.fail(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	h.code = resp.StatusCode
	var header bytes.Buffer
	writeHeader(&header, resp)
	h.headerSize = header.Len()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return h.fail(err)
	}

	include, err := h.boolOpt(Header)
	if err != nil {
		return h.fail(err)
	}
	if !include {
		return body
	}
	return append(header.Bytes(), body...)
}

func (h *HTTP) fail(err error) []byte {
	h.errno = errcode.Classify(err)
	h.errmsg = err.Error()
	return nil
}

func (h *HTTP) request() (*http.Request, time.Duration, error) {
	raw, err := h.stringOpt(URL)
	if err != nil {
		return nil, 0, err
	}
	if raw == "" {
		return nil, 0, errcode.New(errcode.URLMalformat, "No URL set")
	}
	u, err := urlpkg.Parse(withDefaultScheme(raw))
	if err != nil {
		return nil, 0, errcode.New(errcode.URLMalformat, err.Error())
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, 0, errcode.New(errcode.UnsupportedProtocol,
			fmt.Sprintf("Protocol %q not supported", u.Scheme))
	}
	if u.Hostname() == "" {
		return nil, 0, errcode.New(errcode.URLMalformat, "No host part in the URL")
	}

	port, err := h.intOpt(Port)
	if err != nil {
		return nil, 0, err
	}
	if port < 0 || port > 65535 {
		return nil, 0, badArg(Port, port)
	}
	if port > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}

	method, err := h.method()
	if err != nil {
		return nil, 0, err
	}

	body, err := h.bytesOpt(PostFields)
	if err != nil {
		return nil, 0, err
	}
	var r io.Reader
	if body != nil && method != "GET" && method != "HEAD" {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, u.String(), r)
	if err != nil {
		return nil, 0, badArg(CustomRequest, method)
	}
	if err = h.header(req.Header); err != nil {
		return nil, 0, err
	}

	timeout, err := h.intOpt(Timeout)
	if err != nil {
		return nil, 0, err
	}
	if timeout < 0 {
		return nil, 0, badArg(Timeout, timeout)
	}
	return req, time.Duration(timeout) * time.Second, nil
}

// withDefaultScheme prefixes a URL given without a scheme, such as
// "localhost:8080/api" or "example.com", with "http://" as curl does.
func withDefaultScheme(raw string) string {
	p, err := urlparts.Parse(raw)
	if err != nil || p.Scheme != "" {
		return raw
	}
	return "http://" + strings.TrimPrefix(raw, "//")
}

func (h *HTTP) method() (string, error) {
	custom, err := h.stringOpt(CustomRequest)
	if err != nil {
		return "", err
	}
	if custom != "" {
		return custom, nil
	}

	if h.verb == 0 {
		if _, ok := h.opts[PostFields]; ok {
			return "POST", nil
		}
		return "GET", nil
	}
	on, err := h.boolOpt(h.verb)
	if err != nil {
		return "", err
	}
	if !on {
		return "GET", nil
	}
	switch h.verb {
	case Post:
		return "POST", nil
	case Put:
		return "PUT", nil
	default:
		return "GET", nil
	}
}

func (h *HTTP) header(hdr http.Header) error {
	lines, err := h.stringsOpt(HTTPHeader)
	if err != nil {
		return err
	}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			return badArg(HTTPHeader, line)
		}
		if value == "" {
			hdr.Del(name)
			continue
		}
		hdr.Add(name, value)
	}

	for opt, name := range map[Option]string{UserAgent: "User-Agent", Referer: "Referer"} {
		value, err := h.stringOpt(opt)
		if err != nil {
			return err
		}
		if value != "" {
			hdr.Set(name, value)
		}
	}
	return nil
}

// configure applies the directives which act on the connection
// transport rather than on the request.
func (h *HTTP) configure() error {
	connect, err := h.intOpt(ConnectTimeout)
	if err != nil {
		return err
	}
	enableH2, err := h.boolOpt(HTTP2)
	if err != nil {
		return err
	}
	if h.owned == nil {
		if connect != 0 {
			return badArg(ConnectTimeout, connect)
		}
		if enableH2 {
			return badArg(HTTP2, enableH2)
		}
		return nil
	}
	if connect < 0 {
		return badArg(ConnectTimeout, connect)
	}
	h.connectTimeout = time.Duration(connect) * time.Second
	if enableH2 && !h.h2 {
		if err = http2.ConfigureTransport(h.owned); err != nil {
			return errcode.New(errcode.BadFunctionArgument, err.Error())
		}
		h.h2 = true
	}
	return nil
}

func (h *HTTP) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	d := net.Dialer{
		Timeout:   h.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return d.DialContext(ctx, network, addr)
}

// writeHeader writes the status line and header part of a response,
// e.g.:
//
//	HTTP/1.1 200 OK\r\n
//	Content-Type: text/plain\r\n
//	\r\n
func writeHeader(w *bytes.Buffer, resp *http.Response) {
	proto := resp.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	w.WriteString(proto)
	w.WriteByte(' ')
	status := resp.Status
	if status == "" {
		status = strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode)
	}
	w.WriteString(status)
	w.WriteString("\r\n")
	_ = resp.Header.Write(w)
	w.WriteString("\r\n")
}

func badArg(opt Option, value interface{}) error {
	return errcode.New(errcode.BadFunctionArgument,
		fmt.Sprintf("bad value %v for option %s", value, opt))
}

func (h *HTTP) stringOpt(opt Option) (string, error) {
	switch x := h.opts[opt].(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", badArg(opt, x)
	}
}

func (h *HTTP) bytesOpt(opt Option) ([]byte, error) {
	switch x := h.opts[opt].(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return nil, badArg(opt, x)
	}
}

func (h *HTTP) stringsOpt(opt Option) ([]string, error) {
	switch x := h.opts[opt].(type) {
	case nil:
		return nil, nil
	case []string:
		return x, nil
	case string:
		return []string{x}, nil
	case []interface{}:
		lines := make([]string, len(x))
		for i := range x {
			line, ok := x[i].(string)
			if !ok {
				return nil, badArg(opt, x)
			}
			lines[i] = line
		}
		return lines, nil
	default:
		return nil, badArg(opt, x)
	}
}

func (h *HTTP) intOpt(opt Option) (int, error) {
	v := h.opts[opt]
	if v == nil {
		return 0, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, badArg(opt, v)
	}
	return n, nil
}

func (h *HTTP) boolOpt(opt Option) (bool, error) {
	switch x := h.opts[opt].(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, badArg(opt, x)
		}
		return b, nil
	default:
		n, err := toInt(x)
		if err != nil {
			return false, badArg(opt, x)
		}
		return n != 0, nil
	}
}

var errNotInt = errors.New("not an integer")

func toInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case uint64:
		return int(x), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	default:
		return 0, errNotInt
	}
}
