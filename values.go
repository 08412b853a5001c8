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
	"strings"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
)

/////////////////////////////////////////////////////// bytes ///////////////////////////////////////////////////////

// Bytes a human readable byte quantity such as 100MB or 1GiB.
// See https://godoc.org/github.com/dustin/go-humanize.
type Bytes int64

var _ encoding.TextUnmarshaler = (*Bytes)(nil)

func (me *Bytes) UnmarshalText(text []byte) error {
	ui64, err := humanize.ParseBytes(string(text))
	if err != nil {
		return err
	}
	*me = Bytes(ui64)
	return nil
}

func (me Bytes) Int64() int64 {
	return int64(me)
}

func (me Bytes) String() string {
	return humanize.Bytes(uint64(me))
}

/////////////////////////////////////////////////////// flag values ///////////////////////////////////////////////////////

// argValue checks choices and shows the metavar in help
type argValue struct {
	flag.Value
	arg *Argument
}

func (v *argValue) Set(s string) error {
	if err := v.arg.checkChoice(s); err != nil {
		return err
	}
	return v.Value.Set(s)
}

func (v *argValue) Type() string {
	if v.arg.Metavar != "" {
		return v.arg.Metavar
	}
	if len(v.arg.Choices) != 0 {
		return "{" + strings.ReplaceAll(v.arg.choiceList(), ", ", ",") + "}"
	}
	return v.Value.Type()
}

// textValue a flag of a type that decodes itself
type textValue struct {
	typ reflect.Type
	raw string
}

func (v *textValue) Set(s string) error {
	if _, err := convert(s, v.typ); err != nil {
		return err
	}
	v.raw = s
	return nil
}

func (v *textValue) String() string { return v.raw }

func (v *textValue) Type() string { return strings.ToLower(v.typ.Name()) }

// constValue takes no token on the command line, only its const
type constValue struct {
	konst string
	value string
}

func (v *constValue) Set(s string) error {
	if s != v.konst {
		return fmt.Errorf("ignored explicit argument %q", s)
	}
	v.value = s
	return nil
}

func (v *constValue) String() string { return v.value }

func (v *constValue) Type() string { return "const" }

// sliceValue a repeatable flag; every occurrence appends, non-string items are also split on commas
type sliceValue struct {
	elem    reflect.Type
	raws    []string
	changed bool
}

func newSliceValue(a *Argument) *sliceValue {
	return &sliceValue{elem: a.Type.Elem(), raws: defaultStrings(a)}
}

func (v *sliceValue) Set(s string) error {
	items := []string{s}
	if v.elem.Kind() != reflect.String {
		items = strings.Split(s, ",")
	}
	for _, item := range items {
		if _, err := convert(item, v.elem); err != nil {
			return err
		}
	}

	if !v.changed {
		v.raws = nil
		v.changed = true
	}
	v.raws = append(v.raws, items...)
	return nil
}

func (v *sliceValue) String() string { return "[" + strings.Join(v.raws, ",") + "]" }

func (v *sliceValue) Type() string {
	if v.elem == durationType {
		return "durations"
	}
	return strings.ToLower(v.elem.Kind().String()) + "s"
}

// flagStrings the tokens a flag collected
func flagStrings(f *flag.Flag) []string {
	value := f.Value
	if v, ok := value.(*argValue); ok {
		value = v.Value
	}
	if v, ok := value.(*sliceValue); ok {
		return v.raws
	}
	return []string{value.String()}
}
