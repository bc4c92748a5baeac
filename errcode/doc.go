// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package errcode assigns numeric transport error codes to errors
// produced while performing an HTTP request. The numbering follows the
// well known libcurl error codes, so a code reported by a curlx
// transport handle means the same thing as the corresponding libcurl
// code.
//
// Package errcode depends only on the standard library, so it doesn't
// bring any significant dependencies when imported as a standalone
// package.
package errcode
