// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package reqfile loads request descriptions from YAML files and
// applies them to a curlx.Client.
//
// A request file looks like this:
//
//	url: https://example.com:8443/search
//	method: POST
//	timeout: 10
//	headers:
//	  Accept: application/json
//	params:
//	  q: gophers
//	  filter:
//	    lang: go
//	options:
//	  CURLOPT_CONNECTTIMEOUT: 2
//	  http2: true
package reqfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gogama/curlx"
	"github.com/gogama/curlx/form"
	"github.com/gogama/curlx/transport"
)

// A File is a decoded request file.
type File struct {
	URL     string                 `yaml:"url"`
	Method  string                 `yaml:"method"`
	Timeout int                    `yaml:"timeout"`
	Headers map[string]string      `yaml:"headers"`
	Params  map[string]interface{} `yaml:"params"`
	Options map[string]interface{} `yaml:"options"`
}

// Load reads and decodes the request file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("curlx/reqfile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a request file. Unknown top-level keys and option names
// are errors.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("curlx/reqfile: %w", err)
	}
	if _, err := f.options(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply configures c from the file. Fields which are empty in the file
// leave the client alone, so flags applied afterwards can override the
// file.
func (f *File) Apply(c *curlx.Client) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	if f.URL != "" {
		c.SetEndpoint(f.URL)
	}
	if f.Method != "" {
		c.SetMethod(f.Method)
	}
	if f.Timeout != 0 {
		c.SetTimeout(f.Timeout)
	}
	if lines := f.HeaderLines(); len(lines) > 0 {
		c.SetOption(transport.HTTPHeader, lines)
	}
	if len(f.Params) > 0 {
		params, err := form.Values(f.Params)
		if err != nil {
			return fmt.Errorf("curlx/reqfile: params: %w", err)
		}
		c.SetBodyParams(params)
	}
	for _, st := range opts {
		c.SetOption(st.opt, st.value)
	}
	return nil
}

// HeaderLines returns the headers as "Name: value" lines sorted by
// name.
func (f *File) HeaderLines() []string {
	lines := make([]string, 0, len(f.Headers))
	for name, value := range f.Headers {
		lines = append(lines, name+": "+value)
	}
	sort.Strings(lines)
	return lines
}

type setting struct {
	opt   transport.Option
	value interface{}
}

// options resolves the option names. A YAML mapping has no order once
// decoded, so the settings are returned in transport.Option order to
// make the result of conflicting options, such as post and put, stable.
func (f *File) options() ([]setting, error) {
	settings := make([]setting, 0, len(f.Options))
	for name, value := range f.Options {
		opt, ok := transport.ParseOption(name)
		if !ok {
			return nil, fmt.Errorf("curlx/reqfile: unknown option %q", name)
		}
		settings = append(settings, setting{opt: opt, value: value})
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].opt < settings[j].opt
	})
	return settings, nil
}
