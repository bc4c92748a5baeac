// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package errcode

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"
)

// A Code is a numeric transport error code, as reported by function
// Classify and by the Errno method of a transport handle.
//
// The zero value OK means no error. Every other value identifies the
// broad reason a request could not be completed.
type Code int

const (
	// Unknown indicates an error that could not be classified.
	Unknown Code = -1
	// OK indicates no error.
	OK Code = 0
	// UnsupportedProtocol indicates the URL scheme is not one the
	// transport can speak.
	UnsupportedProtocol Code = 1
	// URLMalformat indicates the URL could not be parsed, or is missing
	// a host.
	URLMalformat Code = 3
	// CouldntResolveHost indicates the host name lookup failed.
	CouldntResolveHost Code = 6
	// CouldntConnect indicates the remote host was found but the
	// connection could not be established, for example because it was
	// refused or the network is unreachable.
	CouldntConnect Code = 7
	// OperationTimedout indicates the request did not complete within
	// the configured timeout.
	//
	// Function Classify returns OperationTimedout if the error or any
	// of its wrapped causes has a Timeout() function that reports true.
	OperationTimedout Code = 28
	// SSLConnectError indicates the TLS handshake failed, including
	// certificate verification failures.
	SSLConnectError Code = 35
	// BadFunctionArgument indicates a directive was given a value of
	// the wrong type or an invalid value.
	BadFunctionArgument Code = 43
	// UnknownOption indicates a directive the transport does not
	// recognize.
	UnknownOption Code = 48
	// GotNothing indicates the server closed the connection without
	// sending a response.
	GotNothing Code = 52
	// SendError indicates a failure writing the request.
	SendError Code = 55
	// RecvError indicates a failure reading the response.
	RecvError Code = 56
)

var codeNames = map[Code]string{
	Unknown:             "Unknown error",
	OK:                  "No error",
	UnsupportedProtocol: "Unsupported protocol",
	URLMalformat:        "URL using bad/illegal format or missing URL",
	CouldntResolveHost:  "Couldn't resolve host name",
	CouldntConnect:      "Couldn't connect to server",
	OperationTimedout:   "Timeout was reached",
	SSLConnectError:     "SSL connect error",
	BadFunctionArgument: "A libcurl function was given a bad argument",
	UnknownOption:       "An unknown option was passed in to libcurl",
	GotNothing:          "Server returned nothing (no headers, no data)",
	SendError:           "Failed sending data to the peer",
	RecvError:           "Failure when receiving data from the peer",
}

// String returns a short description of the code.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Error " + strconv.Itoa(int(c))
}

// An Error is an error with an explicitly assigned code. Transports use
// it for failures they detect themselves, before or instead of any
// network I/O.
type Error struct {
	Code Code
	Msg  string
}

// New returns an error carrying code c and message msg.
func New(c Code, msg string) error {
	return &Error{Code: c, Msg: msg}
}

func (err *Error) Error() string {
	return err.Msg
}

// Classify returns the transport error code of the given error. A nil
// error produces OK, and a non-nil error that matches no known cause
// produces Unknown.
//
// In assessing the code, Classify looks at wrapped cause errors
// contained within err, not just err itself. An explicitly coded *Error
// anywhere in the chain wins over every other rule.
func Classify(err error) Code {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return OperationTimedout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CouldntResolveHost
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return CouldntConnect
		case syscall.ECONNRESET:
			return RecvError
		case syscall.EPIPE:
			return SendError
		}
	}

	if isTLS(err) {
		return SSLConnectError
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return GotNothing
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return CouldntConnect
		case "write":
			return SendError
		case "read":
			return RecvError
		}
	}

	return Unknown
}

func isTLS(err error) bool {
	var recordErr tls.RecordHeaderError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

type hasTimeout interface {
	Timeout() bool
}
