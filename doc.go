// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package curlx provides a minimal, configurable HTTP client in the style
of a cURL handle: directives are applied one at a time, the request is
performed with a single blocking call, and the raw output is parsed
into a status code, a header mapping and a body.

Create a Client, chain its setters, and execute:

	c := curlx.New("https://www.example.com:8443/form")
	defer c.Close()
	resp, err := c.SetMethod("post").
		SetTimeout(10).
		SetBodyParams(url.Values{"key": {"Value"}, "id": {"123"}}).
		Execute()
	if err != nil {
		var tErr *curlx.TransportError
		if errors.As(err, &tErr) {
			log.Fatalf("transport error %d: %s", tErr.Code, tErr.Message)
		}
	}
	fmt.Println(resp.StatusCode(), resp.Header("Content-Type"))

Directives which have no dedicated setter are applied with SetOption
using the identifiers from package transport:

	c.SetOptions(map[transport.Option]interface{}{
		transport.UserAgent:  "my-agent/1.0",
		transport.HTTPHeader: []string{"Accept: application/json"},
	})

For control over how requests are sent, supply a custom transport
handle, for example one that wraps a preconfigured http.Client:

	h := transport.NewHTTPWithDoer(&http.Client{...})
	c := curlx.NewWithHandle(h, "")

To hook into each execution, install a handler into the appropriate
handler chain. LogHandlers builds a group which logs every event:

	c.Handlers = curlx.LogHandlers(log.New(os.Stderr, "", log.LstdFlags))

The client parses the transport output by splitting it at the header
block length the transport reports. This requires the output to hold
one header block immediately followed by the body; see package
transport for the full contract.
*/
package curlx
