// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the curlx command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogama/curlx"
	"github.com/gogama/curlx/internal/output"
	"github.com/gogama/curlx/internal/reqfile"
	"github.com/gogama/curlx/transport"
)

var version = "0.1.0"

type flags struct {
	method    string
	data      []string
	maxTime   int
	headers   []string
	userAgent string
	http2     bool
	include   bool
	options   []string
	file      string
	jq        string
	verbose   bool
	noColor   bool
}

// NewRootCmd returns the curlx command.
func NewRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:     "curlx [flags] [URL]",
		Short:   "Make one HTTP request and print the response",
		Version: version,
		Long: `curlx makes a single HTTP request and prints the response body, in
the manner of curl. The request can be given with flags, with a YAML
request file (-f), or both, in which case flags override the file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.method, "request", "X", "", "HTTP method (GET, POST or PUT)")
	fl.StringArrayVarP(&f.data, "data", "d", nil, "body parameter key=value (can be used multiple times)")
	fl.IntVarP(&f.maxTime, "max-time", "m", 0, "maximum time in seconds for the request")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, `request header "Name: value" (can be used multiple times)`)
	fl.StringVarP(&f.userAgent, "user-agent", "A", "", "User-Agent header")
	fl.BoolVar(&f.http2, "http2", false, "use HTTP/2 for https URLs")
	fl.BoolVarP(&f.include, "include", "i", false, "include response headers in the output")
	fl.StringArrayVarP(&f.options, "option", "o", nil, "transport option NAME=VALUE (can be used multiple times)")
	fl.StringVarP(&f.file, "file", "f", "", "YAML request file")
	fl.StringVar(&f.jq, "jq", "", "print only the value at this path of a JSON body")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log request events to stderr")
	fl.BoolVar(&f.noColor, "no-color", false, "disable colored output")

	return cmd
}

// Execute runs the curlx command with the process arguments and
// returns the exit status.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		var r reportedError
		if !errors.As(err, &r) {
			fmt.Fprintln(cmd.ErrOrStderr(), "curlx:", err)
		}
		return 1
	}
	return 0
}

// A reportedError has already been written to stderr.
type reportedError struct {
	error
}

func (r reportedError) Unwrap() error {
	return r.error
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	formatter := output.NewFormatter(f.include, f.noColor || !isTerminal(stdout))

	err := execute(cmd, f, args, stdout, stderr, formatter)
	if err != nil {
		fmt.Fprint(stderr, formatter.FormatError(err))
		return reportedError{err}
	}
	return nil
}

func execute(cmd *cobra.Command, f *flags, args []string, stdout, stderr io.Writer, formatter *output.Formatter) error {
	if len(args) == 0 && f.file == "" {
		return errors.New("curlx: no URL specified")
	}

	c := curlx.New("")
	defer c.Close()

	if f.verbose {
		c.Handlers = curlx.LogHandlers(log.New(stderr, "", log.LstdFlags))
	}

	if f.file != "" {
		rf, err := reqfile.Load(f.file)
		if err != nil {
			return err
		}
		if err = rf.Apply(c); err != nil {
			return err
		}
	}

	if len(args) > 0 {
		c.SetEndpoint(args[0])
	}
	if f.method != "" {
		c.SetMethod(f.method)
	}
	if cmd.Flags().Changed("max-time") {
		c.SetTimeout(f.maxTime)
	}
	if len(f.headers) > 0 {
		c.SetOption(transport.HTTPHeader, f.headers)
	}
	if f.userAgent != "" {
		c.SetOption(transport.UserAgent, f.userAgent)
	}
	if f.http2 {
		c.SetOption(transport.HTTP2, true)
	}
	if len(f.data) > 0 {
		params, err := parseData(f.data)
		if err != nil {
			return err
		}
		c.SetBodyParams(params)
	}
	settings, err := parseOptions(f.options)
	if err != nil {
		return err
	}
	for _, st := range settings {
		c.SetOption(st.opt, st.value)
	}

	resp, err := c.Execute()
	if err != nil {
		return err
	}

	if f.jq != "" {
		value, err := output.Extract(resp.Body(), f.jq)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, value)
		return nil
	}

	fmt.Fprint(stdout, formatter.FormatResponse(resp))
	return nil
}

// parseData turns key=value pairs into body parameters. A pair without
// "=" is a key with an empty value.
func parseData(data []string) (url.Values, error) {
	params := url.Values{}
	for _, d := range data {
		key, value, _ := strings.Cut(d, "=")
		if key == "" {
			return nil, fmt.Errorf("curlx: bad data %q", d)
		}
		params.Add(key, value)
	}
	return params, nil
}

type setting struct {
	opt   transport.Option
	value string
}

// parseOptions resolves NAME=VALUE pairs into transport options, keeping
// the command line order. The value is passed as a string; the
// transport converts it to the type the option needs.
func parseOptions(pairs []string) ([]setting, error) {
	settings := make([]setting, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("curlx: bad option %q, want NAME=VALUE", pair)
		}
		opt, ok := transport.ParseOption(name)
		if !ok {
			return nil, fmt.Errorf("curlx: unknown option %q", name)
		}
		settings = append(settings, setting{opt: opt, value: value})
	}
	return settings, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.IsTerminal(f)
}
