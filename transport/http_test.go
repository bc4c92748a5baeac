// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gogama/curlx/errcode"
)

func echoHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/slow":
		time.Sleep(2 * time.Second)
	case "/redirect":
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
		return
	}
	b, _ := ioutil.ReadAll(r.Body)
	w.Header().Set("X-Method", r.Method)
	w.Header().Set("X-Agent", r.UserAgent())
	w.Header().Set("X-Custom", r.Header.Get("X-Custom"))
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func newServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(echoHandler))
	t.Cleanup(server.Close)
	return server
}

func TestHTTP_Perform(t *testing.T) {
	server := newServer(t)

	t.Run("get with header", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL+"/get")
		h.SetOpt(Header, true)
		raw := h.Perform()
		require.NotEmpty(t, raw, h.ErrMsg())
		assert.Equal(t, errcode.OK, h.Errno())
		assert.Empty(t, h.ErrMsg())
		assert.Equal(t, 200, h.ResponseCode())
		header := string(raw[:h.HeaderSize()])
		assert.True(t, strings.HasPrefix(header, "HTTP/1.1 200 OK\r\n"))
		assert.True(t, strings.HasSuffix(header, "\r\n\r\n"))
		assert.Contains(t, header, "X-Method: GET\r\n")
		assert.Contains(t, header, "Content-Type: text/plain\r\n")
		assert.Empty(t, raw[h.HeaderSize():])
	})
	t.Run("body only", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL)
		h.SetOpt(PostFields, "a=1&b=2")
		raw := h.Perform()
		assert.Equal(t, "a=1&b=2", string(raw))
		assert.Greater(t, h.HeaderSize(), 0)
	})
	t.Run("post fields imply POST", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL)
		h.SetOpt(Header, 1)
		h.SetOpt(PostFields, []byte("x=y"))
		raw := h.Perform()
		require.NotEmpty(t, raw, h.ErrMsg())
		assert.Contains(t, string(raw[:h.HeaderSize()]), "X-Method: POST\r\n")
		assert.Equal(t, "x=y", string(raw[h.HeaderSize():]))
	})
	t.Run("verb overrides", func(t *testing.T) {
		testCases := []struct {
			name   string
			set    func(h *HTTP)
			method string
		}{
			{"default", func(h *HTTP) {}, "GET"},
			{"post", func(h *HTTP) { h.SetOpt(Post, true) }, "POST"},
			{"put", func(h *HTTP) { h.SetOpt(Put, true) }, "PUT"},
			{"post then get", func(h *HTTP) { h.SetOpt(Post, true); h.SetOpt(HTTPGet, true) }, "GET"},
			{"get then put", func(h *HTTP) { h.SetOpt(HTTPGet, true); h.SetOpt(Put, true) }, "PUT"},
			{"post off", func(h *HTTP) { h.SetOpt(Post, false) }, "GET"},
			{"custom", func(h *HTTP) { h.SetOpt(Post, true); h.SetOpt(CustomRequest, "DELETE") }, "DELETE"},
			{"custom cleared", func(h *HTTP) { h.SetOpt(Post, true); h.SetOpt(CustomRequest, "DELETE"); h.SetOpt(CustomRequest, "") }, "POST"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				h := NewHTTP()
				defer h.Close()
				h.SetOpt(URL, server.URL)
				h.SetOpt(Header, true)
				testCase.set(h)
				raw := h.Perform()
				require.NotEmpty(t, raw, h.ErrMsg())
				assert.Contains(t, string(raw), "X-Method: "+testCase.method+"\r\n")
			})
		}
	})
	t.Run("port override", func(t *testing.T) {
		_, port, err := net.SplitHostPort(server.Listener.Addr().String())
		require.NoError(t, err)
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, "http://127.0.0.1/p")
		p, _ := strconv.Atoi(port)
		h.SetOpt(Port, p)
		raw := h.Perform()
		assert.NotNil(t, raw, h.ErrMsg())
		assert.Equal(t, 200, h.ResponseCode())
	})
	t.Run("request headers", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL)
		h.SetOpt(Header, true)
		h.SetOpt(UserAgent, "curlx-test/1.0")
		h.SetOpt(HTTPHeader, []string{"X-Custom: ham", "X-Removed:"})
		raw := string(h.Perform())
		assert.Contains(t, raw, "X-Agent: curlx-test/1.0\r\n")
		assert.Contains(t, raw, "X-Custom: ham\r\n")
	})
	t.Run("loose value types", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL)
		h.SetOpt(Header, "true")
		h.SetOpt(Timeout, "5")
		h.SetOpt(HTTPHeader, []interface{}{"X-Custom: eggs"})
		raw := string(h.Perform())
		require.NotEmpty(t, raw, h.ErrMsg())
		assert.Contains(t, raw, "X-Custom: eggs\r\n")
	})
	t.Run("scheme defaults to http", func(t *testing.T) {
		hostPort := strings.TrimPrefix(server.URL, "http://")
		for _, u := range []string{hostPort, hostPort + "/get?x=1", "//" + hostPort + "/get"} {
			h := NewHTTP()
			h.SetOpt(URL, u)
			raw := h.Perform()
			assert.NotNil(t, raw, u+": "+h.ErrMsg())
			assert.Equal(t, 200, h.ResponseCode(), u)
			_ = h.Close()
		}
	})
	t.Run("nil removes option", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL)
		h.SetOpt(Header, true)
		h.SetOpt(Option(999), 1)
		assert.Nil(t, h.Perform())
		assert.Equal(t, errcode.UnknownOption, h.Errno())
		h.SetOpt(Option(999), nil)
		h.SetOpt(Put, true)
		h.SetOpt(Put, nil)
		raw := string(h.Perform())
		require.NotEmpty(t, raw, h.ErrMsg())
		assert.Equal(t, errcode.OK, h.Errno())
		assert.Contains(t, raw, "X-Method: GET\r\n")
	})
	t.Run("redirect not followed", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL+"/redirect")
		h.SetOpt(Header, true)
		raw := string(h.Perform())
		assert.Equal(t, http.StatusFound, h.ResponseCode())
		assert.Contains(t, raw, "Location: /elsewhere\r\n")
	})
	t.Run("timeout", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, server.URL+"/slow")
		h.SetOpt(Timeout, 1)
		raw := h.Perform()
		assert.Nil(t, raw)
		assert.Equal(t, errcode.OperationTimedout, h.Errno())
		assert.NotEmpty(t, h.ErrMsg())
	})
	t.Run("reused handle resets state", func(t *testing.T) {
		h := NewHTTP()
		defer h.Close()
		h.SetOpt(URL, "ftp://example.com/")
		assert.Nil(t, h.Perform())
		assert.Equal(t, errcode.UnsupportedProtocol, h.Errno())
		h.SetOpt(URL, server.URL)
		assert.NotNil(t, h.Perform())
		assert.Equal(t, errcode.OK, h.Errno())
		assert.Empty(t, h.ErrMsg())
	})
}

func TestHTTP_PerformErrors(t *testing.T) {
	closedAddr := func(t *testing.T) string {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())
		return addr
	}

	testCases := []struct {
		name string
		set  func(t *testing.T, h *HTTP)
		code errcode.Code
	}{
		{"no URL", func(t *testing.T, h *HTTP) {}, errcode.URLMalformat},
		{"bad URL", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://[::1") }, errcode.URLMalformat},
		{"no host", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http:///path") }, errcode.URLMalformat},
		{"scheme", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "gopher://example.com") }, errcode.UnsupportedProtocol},
		{"unknown option", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(Option(999), 1) }, errcode.UnknownOption},
		{"bad timeout", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(Timeout, "soon") }, errcode.BadFunctionArgument},
		{"negative timeout", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(Timeout, -1) }, errcode.BadFunctionArgument},
		{"bad port", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(Port, 70000) }, errcode.BadFunctionArgument},
		{"bad header", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(HTTPHeader, []string{"no colon"}) }, errcode.BadFunctionArgument},
		{"bad header type", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(HTTPHeader, 5) }, errcode.BadFunctionArgument},
		{"bad method", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(CustomRequest, "BAD METHOD") }, errcode.BadFunctionArgument},
		{"bad body", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(PostFields, 3.5) }, errcode.BadFunctionArgument},
		{"bad bool", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(Header, "maybe") }, errcode.BadFunctionArgument},
		{"bad header list", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://example.com"); h.SetOpt(HTTPHeader, []interface{}{"A: 1", 2}) }, errcode.BadFunctionArgument},
		{"connection refused", func(t *testing.T, h *HTTP) { h.SetOpt(URL, "http://"+closedAddr(t)+"/") }, errcode.CouldntConnect},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			h := NewHTTP()
			defer h.Close()
			testCase.set(t, h)
			raw := h.Perform()
			assert.Nil(t, raw)
			assert.Equal(t, testCase.code, h.Errno(), h.ErrMsg())
			assert.NotEmpty(t, h.ErrMsg())
			assert.Equal(t, 0, h.ResponseCode())
		})
	}
}

func TestHTTP_TLS(t *testing.T) {
	server := httptest.NewUnstartedServer(http.HandlerFunc(echoHandler))
	server.EnableHTTP2 = true
	server.StartTLS()
	defer server.Close()

	h := NewHTTP()
	defer h.Close()
	h.SetOpt(URL, server.URL)
	h.SetOpt(HTTP2, true)
	assert.Nil(t, h.Perform())
	assert.Equal(t, errcode.SSLConnectError, h.Errno(), h.ErrMsg())
	h.SetOpt(HTTP2, true)
	assert.Nil(t, h.Perform())
	assert.Equal(t, errcode.SSLConnectError, h.Errno(), "configuring HTTP/2 twice: %s", h.ErrMsg())
}

func TestHTTP_Close(t *testing.T) {
	server := newServer(t)
	h := NewHTTP()
	h.SetOpt(URL, server.URL)
	assert.NotNil(t, h.Perform())
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
	assert.Nil(t, h.Perform())
	assert.Equal(t, errcode.BadFunctionArgument, h.Errno())
}

func TestNewHTTPWithDoer(t *testing.T) {
	assert.PanicsWithValue(t, "curlx/transport: nil doer", func() { NewHTTPWithDoer(nil) })

	t.Run("renders response", func(t *testing.T) {
		m := newMockHTTPDoer(t)
		m.On("Do", mock.MatchedBy(func(r *http.Request) bool {
			return r.Method == "PUT" && r.URL.String() == "http://example.com:8080/x"
		})).Return(&http.Response{
			Proto:      "HTTP/1.1",
			Status:     "201 Created",
			StatusCode: 201,
			Header:     http.Header{"X-B": {"2"}, "X-A": {"1", "one"}},
			Body:       ioutil.NopCloser(strings.NewReader("made")),
		}, nil).Once()
		h := NewHTTPWithDoer(m)
		h.SetOpt(URL, "http://example.com/x")
		h.SetOpt(Port, "8080")
		h.SetOpt(Put, true)
		h.SetOpt(Header, true)
		raw := h.Perform()
		assert.Equal(t, "HTTP/1.1 201 Created\r\nX-A: 1\r\nX-A: one\r\nX-B: 2\r\n\r\nmade", string(raw))
		assert.Equal(t, len("HTTP/1.1 201 Created\r\nX-A: 1\r\nX-A: one\r\nX-B: 2\r\n\r\n"), h.HeaderSize())
		assert.Equal(t, 201, h.ResponseCode())
		m.AssertExpectations(t)
	})
	t.Run("missing status text", func(t *testing.T) {
		m := newMockHTTPDoer(t)
		m.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: 404,
			Header:     http.Header{},
			Body:       ioutil.NopCloser(strings.NewReader("")),
		}, nil).Once()
		h := NewHTTPWithDoer(m)
		h.SetOpt(URL, "http://example.com/")
		h.SetOpt(Header, true)
		assert.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", string(h.Perform()))
	})
	t.Run("doer error", func(t *testing.T) {
		m := newMockHTTPDoer(t)
		m.On("Do", mock.Anything).Return(nil, syscall.ECONNREFUSED).Once()
		h := NewHTTPWithDoer(m)
		h.SetOpt(URL, "http://example.com/")
		assert.Nil(t, h.Perform())
		assert.Equal(t, errcode.CouldntConnect, h.Errno())
		assert.Equal(t, syscall.ECONNREFUSED.Error(), h.ErrMsg())
	})
	t.Run("body error", func(t *testing.T) {
		m := newMockHTTPDoer(t)
		m.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: 200,
			Header:     http.Header{},
			Body:       ioutil.NopCloser(&errReader{syscall.ECONNRESET}),
		}, nil).Once()
		h := NewHTTPWithDoer(m)
		h.SetOpt(URL, "http://example.com/")
		assert.Nil(t, h.Perform())
		assert.Equal(t, errcode.RecvError, h.Errno())
		assert.Equal(t, 200, h.ResponseCode())
	})
	t.Run("transport options rejected", func(t *testing.T) {
		for _, opt := range []Option{ConnectTimeout, HTTP2} {
			h := NewHTTPWithDoer(newMockHTTPDoer(t))
			h.SetOpt(URL, "http://example.com/")
			h.SetOpt(opt, 1)
			assert.Nil(t, h.Perform())
			assert.Equal(t, errcode.BadFunctionArgument, h.Errno(), opt.String())
		}
	})
	t.Run("close leaves doer alone", func(t *testing.T) {
		m := newMockHTTPDoer(t)
		h := NewHTTPWithDoer(m)
		assert.NoError(t, h.Close())
		m.AssertExpectations(t)
	})
}

type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}

type mockHTTPDoer struct {
	mock.Mock
}

func newMockHTTPDoer(t *testing.T) *mockHTTPDoer {
	m := &mockHTTPDoer{}
	m.Test(t)
	return m
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*http.Response); ok {
		return resp, err
	}
	return nil, err
}
