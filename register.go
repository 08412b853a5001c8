// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

// bindFlags registers the optional arguments on the command flags, in declaration order
func bindFlags(cmd *cobra.Command, args []*Argument) error {
	flagSet := cmd.Flags()
	for _, a := range args {
		if a.Positional {
			continue
		}
		if err := bindFlag(flagSet, a); err != nil {
			return err
		}
		if a.Required {
			if err := cmd.MarkFlagRequired(a.long); err != nil {
				return err
			}
		}
	}
	return nil
}

func bindFlag(flagSet *flag.FlagSet, a *Argument) error {
	switch {
	case a.Action == ActionStoreConst:
		flagSet.VarP(&constValue{konst: fmt.Sprint(a.Const), value: defaultText(a)}, a.long, a.short, a.Help)
	case a.Action == ActionCount:
		flagSet.CountP(a.long, a.short, a.Help)
	case a.Type == durationType:
		flagSet.DurationP(a.long, a.short, defaultAs[time.Duration](a), a.Help)
	case isText(a.Type):
		flagSet.VarP(&textValue{typ: a.Type, raw: defaultText(a)}, a.long, a.short, a.Help)
	default:
		switch a.Type.Kind() {
		case reflect.String:
			flagSet.StringP(a.long, a.short, defaultAs[string](a), a.Help)
		case reflect.Bool:
			flagSet.BoolP(a.long, a.short, defaultAs[bool](a), a.Help)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			flagSet.IntP(a.long, a.short, defaultAs[int](a), a.Help)
		case reflect.Int64:
			flagSet.Int64P(a.long, a.short, defaultAs[int64](a), a.Help)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			flagSet.UintP(a.long, a.short, defaultAs[uint](a), a.Help)
		case reflect.Uint64:
			flagSet.Uint64P(a.long, a.short, defaultAs[uint64](a), a.Help)
		case reflect.Float32:
			flagSet.Float32P(a.long, a.short, defaultAs[float32](a), a.Help)
		case reflect.Float64:
			flagSet.Float64P(a.long, a.short, defaultAs[float64](a), a.Help)
		case reflect.Slice:
			flagSet.VarP(newSliceValue(a), a.long, a.short, a.Help)
		default:
			return fmt.Errorf("unsupported type: %s|%s", a.Field, a.Type.Kind())
		}
	}

	f := flagSet.Lookup(a.long)
	if a.Action == ActionStoreFalse {
		f.NoOptDefVal = "false"
	}
	if a.Action == ActionStoreConst {
		f.NoOptDefVal = fmt.Sprint(a.Const)
	}
	if a.Metavar != "" || len(a.Choices) != 0 {
		f.Value = &argValue{Value: f.Value, arg: a}
	}
	return nil
}

/////////////////////////////////////////////////////// default ///////////////////////////////////////////////////////

// defaultAs the default converted to V, for help output; zero when there is none
func defaultAs[V any](a *Argument) V {
	var zero V
	if !a.hasDefault() || a.Default == nil {
		return zero
	}
	v := reflect.ValueOf(a.Default)
	t := reflect.TypeOf(zero)
	if !v.CanConvert(t) {
		return zero
	}
	return v.Convert(t).Interface().(V)
}

func defaultText(a *Argument) string {
	if !a.hasDefault() || a.Default == nil {
		return ""
	}
	return fmt.Sprint(a.Default)
}

func defaultStrings(a *Argument) []string {
	if !a.hasDefault() || a.Default == nil {
		return nil
	}
	v := reflect.ValueOf(a.Default)
	if v.Kind() != reflect.Slice {
		return []string{fmt.Sprint(a.Default)}
	}
	l := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		l = append(l, fmt.Sprint(v.Index(i).Interface()))
	}
	return l
}

// usageLine prog followed by the positional placeholders
func usageLine(prog string, args []*Argument) string {
	parts := []string{prog}
	for _, a := range args {
		if a.Positional {
			parts = append(parts, a.placeholder())
		}
	}
	return strings.Join(parts, " ")
}
