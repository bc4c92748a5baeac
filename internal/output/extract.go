// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var errNotJSON = errors.New("curlx/output: body is not valid JSON")

// Extract returns the value at path in the JSON document body. The path
// uses gjson syntax ("items.0.name"); a leading "$." or "$" as in
// JSONPath is accepted and ignored. Strings are returned unquoted, and
// objects and arrays as raw JSON.
func Extract(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errNotJSON
	}

	path = strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	if path == "" {
		path = "@this"
	}

	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return "", fmt.Errorf("curlx/output: path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}
