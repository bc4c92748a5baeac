// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package curlx

import (
	"net/url"
	"strings"
	"time"

	"github.com/gogama/curlx/form"
	"github.com/gogama/curlx/transport"
	"github.com/gogama/curlx/urlparts"
)

var emptyHandlers = HandlerGroup{}

// A Client is a minimal HTTP client wrapped around a transport handle.
//
// Every setter applies its directive to the handle immediately and
// returns the client, so that configuration and execution can be
// chained:
//
//	c := curlx.New("")
//	defer c.Close()
//	resp, err := c.SetEndpoint("http://example.com:8080/search").
//		SetMethod("POST").
//		SetTimeout(5).
//		SetBodyParams(url.Values{"q": {"gophers"}}).
//		Execute()
//
// Setters do not validate their input. A bad URL, method or option
// value is passed on to the transport, and typically surfaces later as
// a *TransportError from Execute.
//
// A Client exclusively owns its transport handle and is not safe for
// concurrent use by multiple goroutines. To make concurrent requests,
// use one Client per goroutine. Call Close when done with a Client to
// release the handle.
type Client struct {
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during Execute.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup

	handle       transport.Handle
	lastResponse *Response
	endpoint     string
	method       string
	closed       bool
}

// New returns a client using the default transport handle,
// transport.NewHTTP. If endpoint is not empty, it is applied as if by
// SetEndpoint.
func New(endpoint string) *Client {
	return NewWithHandle(transport.NewHTTP(), endpoint)
}

// NewWithHandle returns a client which takes ownership of h. If
// endpoint is not empty, it is applied as if by SetEndpoint.
func NewWithHandle(h transport.Handle, endpoint string) *Client {
	if h == nil {
		panic("curlx: nil handle")
	}

	c := &Client{
		handle: h,
		method: "GET",
	}
	if endpoint != "" {
		c.SetEndpoint(endpoint)
	}
	return c
}

// SetEndpoint sets the URL to make the request to.
//
// If the URL contains an explicit port, the port is applied as a
// separate transport.Port directive and removed from the URL given to
// the transport.URL directive. Otherwise the port directive is reset,
// so each call replaces all endpoint state left by the previous one.
//
// A string which cannot be parsed as a URL is passed to the transport
// unchanged.
func (c *Client) SetEndpoint(url string) *Client {
	c.endpoint = url

	p, err := urlparts.Parse(url)
	if err != nil {
		c.handle.SetOpt(transport.Port, 0)
		c.handle.SetOpt(transport.URL, url)
		return c
	}

	c.handle.SetOpt(transport.Port, p.PortNumber())
	c.handle.SetOpt(transport.URL, p.WithoutPort().String())
	return c
}

// SetMethod selects the request verb. The method is matched against
// POST and PUT without regard to case; any other value, including GET,
// selects GET.
func (c *Client) SetMethod(method string) *Client {
	switch strings.ToUpper(method) {
	case "POST":
		c.method = "POST"
		c.handle.SetOpt(transport.Post, true)
	case "PUT":
		c.method = "PUT"
		c.handle.SetOpt(transport.Put, true)
	default:
		c.method = "GET"
		c.handle.SetOpt(transport.HTTPGet, true)
	}
	return c
}

// SetTimeout sets the maximum number of seconds the request may take.
// Zero means no timeout.
func (c *Client) SetTimeout(seconds int) *Client {
	c.handle.SetOpt(transport.Timeout, seconds)
	return c
}

// SetOption applies an arbitrary transport directive.
func (c *Client) SetOption(opt transport.Option, value interface{}) *Client {
	c.handle.SetOpt(opt, value)
	return c
}

// SetOptions applies each entry of opts as if by SetOption, in no
// particular order. Options whose effect depends on the order they are
// set in, such as the verb options HTTPGet, Post and Put, should be
// applied with separate SetOption calls instead.
func (c *Client) SetOptions(opts map[transport.Option]interface{}) *Client {
	for opt, value := range opts {
		c.SetOption(opt, value)
	}
	return c
}

// SetBodyParams form-encodes params and applies the result as the
// request body. Use form.Values to build params from a map or struct.
//
// No Content-Type header is added; set one with the transport.HTTPHeader
// option if the server requires it.
func (c *Client) SetBodyParams(params url.Values) *Client {
	c.handle.SetOpt(transport.PostFields, form.Encode(params))
	return c
}

// Execute performs the request described by the directives applied so
// far, blocking until the transport returns.
//
// If the transport produces output, it is parsed into a Response which
// is returned and also retained as the client's last response. If the
// transport produces no output, the returned error is a
// *TransportError carrying the transport's message and error code, and
// the last response is left as it was.
//
// Execute may be called repeatedly; each call re-runs the request with
// the directives in effect at the time.
func (c *Client) Execute() (*Response, error) {
	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	e := &Execution{
		Method:   c.method,
		Endpoint: c.endpoint,
	}
	handlers.run(BeforeExecute, e)

	c.handle.SetOpt(transport.Header, true)
	e.Start = time.Now()
	raw := c.handle.Perform()
	e.End = time.Now()

	if len(raw) == 0 {
		e.Err = &TransportError{
			Message: c.handle.ErrMsg(),
			Code:    int(c.handle.Errno()),
		}
		handlers.run(AfterExecuteError, e)
		return nil, e.Err
	}

	e.Raw = raw
	e.HeaderSize = c.handle.HeaderSize()
	e.Response = parseResponse(raw, e.HeaderSize, c.handle.ResponseCode())
	c.lastResponse = e.Response
	handlers.run(AfterExecute, e)
	return e.Response, nil
}

// LastResponse returns the response from the most recent successful
// Execute, or nil if none has succeeded yet.
func (c *Client) LastResponse() *Response {
	return c.lastResponse
}

// Close releases the transport handle. It is safe to call Close more
// than once; only the first call closes the handle. After Close, every
// Execute fails.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.handle.Close()
}
