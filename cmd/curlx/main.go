// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/gogama/curlx/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
