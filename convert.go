// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// isText the type decodes itself from a string
func isText(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// isScalar the type holds a single token
func isScalar(t reflect.Type) bool {
	if t == durationType || isText(t) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// supported scalars and slices of scalars
func supported(t reflect.Type) bool {
	if isScalar(t) {
		return true
	}
	return t.Kind() == reflect.Slice && isScalar(t.Elem())
}

// elemType the type of a single token of t
func elemType(t reflect.Type) reflect.Type {
	if isScalar(t) {
		return t
	}
	return t.Elem()
}

// convert a single token to a value of type t
func convert(raw string, t reflect.Type) (reflect.Value, error) {
	if t == durationType {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	if isText(t) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}
		return v.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%q overflows %s", raw, t)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := cast.ToUint64E(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%q overflows %s", raw, t)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%q overflows %s", raw, t)
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type: %s", t)
	}
	return v, nil
}

// convertAll tokens to a value of type t: a scalar takes the first token, a slice takes them all
func convertAll(raws []string, t reflect.Type) (reflect.Value, error) {
	if isScalar(t) {
		if len(raws) == 0 {
			return reflect.Zero(t), nil
		}
		return convert(raws[0], t)
	}

	s := reflect.MakeSlice(t, 0, len(raws))
	for _, raw := range raws {
		e, err := convert(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		s = reflect.Append(s, e)
	}
	return s, nil
}
