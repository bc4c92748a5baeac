// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport defines the transport capability a curlx.Client
drives, and provides the default implementation, HTTP.

A transport Handle is a cURL-like object: configuration is applied one
directive at a time with SetOpt, a request is performed synchronously
with Perform, and the outcome is read back through introspection
methods.

	h := transport.NewHTTP()
	defer h.Close()
	h.SetOpt(transport.URL, "http://example.com/")
	h.SetOpt(transport.Header, true)
	raw := h.Perform()
	if len(raw) == 0 {
		log.Fatalf("error %d: %s", h.Errno(), h.ErrMsg())
	}
	header, body := raw[:h.HeaderSize()], raw[h.HeaderSize():]

Any networking library can be adapted into a Handle, provided it honors
the contract documented on the Handle interface. In particular the raw
output of Perform must contain at most one header block, immediately
followed by the body, and HeaderSize must report that block's exact
length. Transports which pass through interim 1xx responses, or
proxies which prepend their own header blocks, break this contract.
*/
package transport
