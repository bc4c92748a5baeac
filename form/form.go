// Copyright 2021 The curlx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package form converts Go values into form parameters for use as a
// url-encoded request body.
//
// Values accepts the shapes callers usually have at hand: url.Values,
// maps of strings or string slices, free-form maps decoded from JSON or
// YAML, and structs tagged for github.com/google/go-querystring:
//
//	type search struct {
//		Query string `url:"q"`
//		Page  int    `url:"page,omitempty"`
//	}
//	v, err := form.Values(search{Query: "go"})
//	...
//	client.SetBodyParams(v)
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"

	"github.com/google/go-querystring/query"
)

const badTypeMsg = "curlx/form: invalid type (for params use url.Values, " +
	"map[string]string, map[string][]string, map[string]interface{} or a struct)"

// Values converts v into form values. The conversion logic is:
//
// • If v is nil, empty values and no error are returned.
//
// • If v is url.Values or map[string][]string, a copy is returned.
//
// • If v is map[string]string, each entry becomes a single value.
//
// • If v is map[string]interface{}, scalar entries are formatted with
// fmt, and nested maps and slices are flattened using bracket notation,
// so {"a": {"b": 1}, "c": [2, 3]} becomes a[b]=1&c[0]=2&c[1]=3. Nil
// entries are skipped and booleans become "1" or "0".
//
// • If v is a struct or a pointer to one, it is encoded by
// github.com/google/go-querystring using its "url" field tags.
//
// • Any other type produces an error.
func Values(v interface{}) (url.Values, error) {
	switch x := v.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return copyValues(x), nil
	case map[string][]string:
		return copyValues(x), nil
	case map[string]string:
		out := make(url.Values, len(x))
		for k, s := range x {
			out.Set(k, s)
		}
		return out, nil
	case map[string]interface{}:
		out := make(url.Values, len(x))
		for k, e := range x {
			if err := flatten(out, k, e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return url.Values{}, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, errors.New(badTypeMsg)
	}
	out, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("curlx/form: %w", err)
	}
	return out, nil
}

// Encode renders v as "key=value" pairs joined by "&", with keys and
// values percent-escaped and pairs sorted by key.
func Encode(v url.Values) string {
	return v.Encode()
}

func copyValues(v map[string][]string) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func flatten(out url.Values, key string, v interface{}) error {
	switch x := v.(type) {
	case nil:
	case string:
		out.Add(key, x)
	case bool:
		if x {
			out.Add(key, "1")
		} else {
			out.Add(key, "0")
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(out, key+"["+k+"]", x[k]); err != nil {
				return err
			}
		}
	case []interface{}:
		for i, e := range x {
			if err := flatten(out, key+"["+strconv.Itoa(i)+"]", e); err != nil {
				return err
			}
		}
	case []string:
		for i, e := range x {
			out.Add(key+"["+strconv.Itoa(i)+"]", e)
		}
	case fmt.Stringer:
		out.Add(key, x.String())
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			out.Add(key, fmt.Sprint(v))
		default:
			return fmt.Errorf("curlx/form: cannot encode %T for key %q", v, key)
		}
	}
	return nil
}
