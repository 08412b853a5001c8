// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/bradfitz/iter"
	"github.com/pkg/errors"

	"github.com/zincware/aaargs/lib/stringx"
)

const (
	TagName          = "arg"
	TagLabelName     = "name"
	TagLabelShort    = "short"
	TagLabelHelp     = "help"
	TagLabelDesc     = "desc"
	TagLabelDefault  = "default"
	TagLabelChoices  = "choices"
	TagLabelMetavar  = "metavar"
	TagLabelNargs    = "nargs"
	TagLabelConst    = "const"
	TagLabelDest     = "dest"
	TagLabelAction   = "action"
	TagLabelRequired = "required"
	TagLabelPos      = "positional"
	TagLabelSkip     = "-"
	TagLabelSep      = ","
	TagListSep       = "|"
)

// Action how an argument stores what it parsed.
type Action string

const (
	ActionStore      Action = "store"
	ActionStoreTrue  Action = "store_true"
	ActionStoreFalse Action = "store_false"
	ActionStoreConst Action = "store_const"
	ActionCount      Action = "count"
	ActionAppend     Action = "append"
)

// flag-only actions never consume a positional token
func (a Action) flagOnly() bool {
	switch a {
	case ActionStoreTrue, ActionStoreFalse, ActionStoreConst, ActionCount, ActionAppend:
		return true
	}
	return false
}

// NoValue is the default of an argument declared without one.
// Unlike nil it makes the argument required on direct construction.
var NoValue = noValue{}

type noValue struct{}

func (noValue) String() string { return "<no value>" }

// Options the option bag of an Argument.
type Options struct {
	Action   Action
	Choices  []any
	Const    any
	Default  any
	Dest     string
	Help     string
	Metavar  string
	Nargs    string
	Required bool
	Type     reflect.Type
}

// Argument one resolved command line argument, declared by a struct field.
type Argument struct {
	// Name the attribute name, bound from the field
	Name string
	// Field the Go field name
	Field string
	// Flags the flag strings; a single bare name for positional arguments
	Flags      []string
	Positional bool
	Options

	long  string
	short string
	arity arity
}

// arity how many tokens a positional argument consumes; max < 0 means unbounded
type arity struct {
	min, max int
}

// declaration what a struct field says about its argument, before any inference
type declaration struct {
	field      reflect.StructField
	name       string
	flags      []string
	positional *bool
	action     Action
	help       string
	metavar    string
	nargs      string
	dest       string
	required   bool
	def        *string
	konst      *string
	choices    []string
}

/////////////////////////////////////////////////////// declare ///////////////////////////////////////////////////////

// declare walks the fields of t in order; embedded structs are squashed
func declare(t reflect.Type, cfg *Config) ([]declaration, error) {
	var out []declaration
	for i := range iter.N(t.NumField()) {
		field := t.Field(i)
		if field.Type == metaType {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.IsExported() {
			if strings.TrimSpace(field.Tag.Get(cfg.tagName)) == TagLabelSkip {
				continue
			}
			inner, err := declare(field.Type, cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		if !field.IsExported() {
			continue
		}

		d, err := parseTag(field, cfg)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

// parseTag
//
//	Filename string `arg:"-f --filename,help:file to read,default:a.txt"`
func parseTag(field reflect.StructField, cfg *Config) (*declaration, error) {
	fulls, ok := field.Tag.Lookup(cfg.tagName)

	// ignore untagged field
	if cfg.ignoreUntaggedFields && !ok {
		return nil, nil
	}

	labels := stringx.SplitLabels(fulls, TagLabelSep)
	if strings.TrimSpace(labels[0]) == TagLabelSkip {
		return nil, nil
	}

	d := &declaration{
		field: field,
		flags: strings.Fields(labels[0]),
	}
	for _, label := range labels[1:] {
		k, v, hasValue := strings.Cut(label, ":")
		k = strings.TrimSpace(k)
		switch k {
		case "":
		case TagLabelName:
			d.name = strings.TrimSpace(v)
		case TagLabelShort:
			d.flags = append(d.flags, "-"+strings.TrimSpace(v))
		case TagLabelHelp, TagLabelDesc:
			d.help = v
		case TagLabelDefault:
			d.def = &v
		case TagLabelChoices:
			d.choices = stringx.Split(v, TagListSep)
		case TagLabelMetavar:
			d.metavar = strings.TrimSpace(v)
		case TagLabelNargs:
			d.nargs = strings.TrimSpace(v)
		case TagLabelConst:
			d.konst = &v
		case TagLabelDest:
			d.dest = strings.TrimSpace(v)
		case TagLabelAction:
			d.action = Action(strings.TrimSpace(v))
		case TagLabelRequired, TagLabelPos:
			b := true
			if hasValue {
				var err error
				if b, err = strconv.ParseBool(strings.TrimSpace(v)); err != nil {
					return nil, errors.Wrapf(ErrValue, "field %s: label %q wants a boolean, not %q", field.Name, k, v)
				}
			}
			if k == TagLabelRequired {
				d.required = b
			} else {
				d.positional = &b
			}
		default:
			return nil, errors.Wrapf(ErrUnknownOption, "field %s: unknown tag label %q", field.Name, k)
		}
	}

	// untagged field use field name as the argument name
	if d.name == "" {
		d.name = stringx.Kebab(field.Name)
	}

	if d.required {
		if d.positional != nil && *d.positional {
			return nil, errors.Wrapf(ErrKind, "argument %q: 'required' is an invalid argument for positionals", d.name)
		}
		if d.def != nil {
			return nil, errors.Wrapf(ErrKind, "argument %q: a required argument can not have a default", d.name)
		}
	}

	return d, nil
}

/////////////////////////////////////////////////////// resolve ///////////////////////////////////////////////////////

// resolve infers flags, classification, action and defaults of a declaration
func (d declaration) resolve(cfg *Config) (*Argument, error) {
	a := &Argument{
		Name:  d.name,
		Field: d.field.Name,
		Options: Options{
			Action:   d.action,
			Default:  NoValue,
			Help:     d.help,
			Metavar:  d.metavar,
			Nargs:    d.nargs,
			Required: d.required,
			Type:     d.field.Type,
		},
	}

	if !supported(a.Type) {
		return nil, errors.Wrapf(ErrKind, "argument %q: unsupported type %s", a.Name, a.Type)
	}

	isBool := a.Type.Kind() == reflect.Bool
	if isBool && a.Action == "" {
		a.Action = ActionStoreTrue
		declaredPositional := d.positional != nil && *d.positional
		if declaredPositional || (len(d.flags) != 0 && !stringx.IsFlag(d.flags[0])) {
			return nil, errors.Wrapf(ErrKind, "can not use boolean type with positional argument %q", a.Name)
		}
	}

	if err := a.resolveFlags(d); err != nil {
		return nil, err
	}
	if err := a.resolveAction(d); err != nil {
		return nil, err
	}
	if err := a.resolveNargs(); err != nil {
		return nil, err
	}
	if err := a.resolveValues(d, cfg); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Argument) resolveFlags(d declaration) error {
	if len(d.flags) == 0 {
		positional := !d.required && !a.Action.flagOnly()
		if d.positional != nil {
			positional = *d.positional
		}
		a.Positional = positional
		if positional {
			a.Flags = []string{a.Name}
		} else {
			a.Flags = []string{"--" + a.Name}
		}
	} else {
		a.Flags = slices.Clone(d.flags)
		a.Positional = !stringx.IsFlag(a.Flags[0])
		if d.positional != nil && *d.positional != a.Positional {
			return errors.Wrapf(ErrKind, "argument %q: flags %q disagree with positional=%t", a.Name, a.Flags, *d.positional)
		}
	}

	if a.Positional {
		if len(a.Flags) != 1 {
			return errors.Wrapf(ErrKind, "argument %q: a positional argument takes a single name, got %q", a.Name, a.Flags)
		}
		if a.Required {
			return errors.Wrapf(ErrKind, "argument %q: 'required' is an invalid argument for positionals", a.Name)
		}
		a.Dest = a.Flags[0]
		if d.dest != "" {
			a.Dest = d.dest
		}
		return nil
	}

	for _, flag := range a.Flags {
		switch {
		case strings.HasPrefix(flag, "--") && len(flag) > 2:
			if a.long != "" {
				return errors.Wrapf(ErrKind, "argument %q: more than one long flag in %q", a.Name, a.Flags)
			}
			a.long = flag[2:]
		case stringx.IsFlag(flag) && len(flag) == 2 && flag != "--":
			if a.short != "" {
				return errors.Wrapf(ErrKind, "argument %q: more than one short flag in %q", a.Name, a.Flags)
			}
			a.short = flag[1:]
		default:
			return errors.Wrapf(ErrKind, "argument %q: invalid flag %q, want -x or --name", a.Name, flag)
		}
	}

	// a short only flag is registered under its letter, as in `-e` -> dest "e"
	if a.long == "" {
		a.long = a.short
	}
	a.Dest = a.long
	if d.dest != "" {
		a.Dest = d.dest
	}
	return nil
}

func (a *Argument) resolveAction(d declaration) error {
	if a.Action == "" {
		a.Action = ActionStore
	}
	if a.Positional && a.Action.flagOnly() {
		return errors.Wrapf(ErrKind, "argument %q: action %q is invalid for positionals", a.Name, a.Action)
	}

	kind := a.Type.Kind()
	switch a.Action {
	case ActionStore:
	case ActionStoreTrue, ActionStoreFalse:
		if kind != reflect.Bool {
			return errors.Wrapf(ErrKind, "argument %q: action %q wants a bool field, not %s", a.Name, a.Action, a.Type)
		}
	case ActionStoreConst:
		if d.konst == nil {
			return errors.Wrapf(ErrKind, "argument %q: action %q wants a const", a.Name, a.Action)
		}
	case ActionCount:
		if !isScalar(a.Type) || kind < reflect.Int || kind > reflect.Uint64 || a.Type == durationType || isText(a.Type) {
			return errors.Wrapf(ErrKind, "argument %q: action %q wants an integer field, not %s", a.Name, a.Action, a.Type)
		}
	case ActionAppend:
		if isScalar(a.Type) {
			return errors.Wrapf(ErrKind, "argument %q: action %q wants a slice field, not %s", a.Name, a.Action, a.Type)
		}
	default:
		return errors.Wrapf(ErrValue, "argument %q: unknown action %q", a.Name, a.Action)
	}
	return nil
}

// resolveNargs ? * + or a count; slices without nargs take one or more tokens
func (a *Argument) resolveNargs() error {
	scalar := isScalar(a.Type)
	switch a.Nargs {
	case "":
		a.arity = arity{1, 1}
		if !scalar {
			a.arity = arity{1, -1}
		}
		return nil
	case "?":
		a.arity = arity{0, 1}
		if !a.Positional && a.Action != ActionStoreConst {
			return errors.Wrapf(ErrKind, "argument %q: nargs '?' on a flag wants action %q", a.Name, ActionStoreConst)
		}
		return nil
	}

	// flags take one token per occurrence; repeat the flag to collect more
	if !a.Positional {
		return errors.Wrapf(ErrKind, "argument %q: nargs %q is only valid for positionals, repeat the flag instead", a.Name, a.Nargs)
	}
	switch a.Nargs {
	case "*":
		a.arity = arity{0, -1}
	case "+":
		a.arity = arity{1, -1}
	default:
		n, err := strconv.Atoi(a.Nargs)
		if err != nil || n < 1 {
			return errors.Wrapf(ErrValue, "argument %q: invalid nargs %q", a.Name, a.Nargs)
		}
		a.arity = arity{n, n}
	}

	if scalar {
		return errors.Wrapf(ErrKind, "argument %q: nargs %q wants a slice field, not %s", a.Name, a.Nargs, a.Type)
	}
	return nil
}

func (a *Argument) resolveValues(d declaration, cfg *Config) error {
	switch {
	case a.Action == ActionStoreTrue || a.Action == ActionStoreFalse:
		a.Default = a.Action == ActionStoreFalse
		if d.def != nil {
			b, err := strconv.ParseBool(strings.TrimSpace(*d.def))
			if err != nil {
				return errors.Wrapf(ErrValue, "default value for boolean argument %q can only be boolean, not %q", a.Name, *d.def)
			}
			a.Default = b
		}
	case d.def != nil:
		v, err := a.parseList(*d.def)
		if err != nil {
			return errors.Wrapf(ErrValue, "argument %q: default %q: %s", a.Name, *d.def, err)
		}
		a.Default = v
	case cfg.ArgumentDefault != "" && !a.Positional && !a.Required && a.Action != ActionCount:
		v, err := a.parseList(cfg.ArgumentDefault)
		if err != nil {
			return errors.Wrapf(ErrValue, "argument %q: argument_default %q: %s", a.Name, cfg.ArgumentDefault, err)
		}
		a.Default = v
	}

	if d.konst != nil {
		v, err := a.parseList(*d.konst)
		if err != nil {
			return errors.Wrapf(ErrValue, "argument %q: const %q: %s", a.Name, *d.konst, err)
		}
		a.Const = v
	}

	for _, choice := range d.choices {
		v, err := convert(choice, elemType(a.Type))
		if err != nil {
			return errors.Wrapf(ErrValue, "argument %q: choice %q: %s", a.Name, choice, err)
		}
		a.Choices = append(a.Choices, v.Interface())
	}
	return nil
}

// parseList a tag value; slices take a `|` separated list
func (a *Argument) parseList(s string) (any, error) {
	raws := []string{s}
	if !isScalar(a.Type) {
		raws = stringx.Split(s, TagListSep)
	}
	v, err := convertAll(raws, a.Type)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

/////////////////////////////////////////////////////// values ///////////////////////////////////////////////////////

// parseTokens converts the tokens parsed for this argument
func (a *Argument) parseTokens(tokens []string) (any, error) {
	for _, token := range tokens {
		if err := a.checkChoice(token); err != nil {
			return nil, err
		}
	}
	v, err := convertAll(tokens, a.Type)
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", a.Flags[0], err)
	}
	return v.Interface(), nil
}

// accept converts a value that did not come from the command line, from the
// environment or a namespace, and checks it against the choices
func (a *Argument) accept(val any) (any, error) {
	rv := reflect.ValueOf(val)
	if rv.Type() != a.Type {
		var tokens []string
		switch {
		case rv.Kind() == reflect.String && !isScalar(a.Type):
			tokens = stringx.Split(rv.String(), ",")
		case rv.Kind() == reflect.Slice && rv.Type() != reflect.TypeOf([]byte(nil)):
			for i := range iter.N(rv.Len()) {
				tokens = append(tokens, fmt.Sprint(rv.Index(i).Interface()))
			}
		default:
			tokens = []string{fmt.Sprint(val)}
		}
		return a.parseTokens(tokens)
	}

	if len(a.Choices) == 0 {
		return val, nil
	}
	items := []reflect.Value{rv}
	if !isScalar(a.Type) {
		items = items[:0]
		for i := range iter.N(rv.Len()) {
			items = append(items, rv.Index(i))
		}
	}
	for _, item := range items {
		if !slices.ContainsFunc(a.Choices, func(c any) bool { return reflect.DeepEqual(c, item.Interface()) }) {
			return nil, fmt.Errorf("argument %s: invalid choice: %q (choose from %s)", a.Flags[0], fmt.Sprint(item.Interface()), a.choiceList())
		}
	}
	return val, nil
}

func (a *Argument) checkChoice(token string) error {
	if len(a.Choices) == 0 {
		return nil
	}
	v, err := convert(token, elemType(a.Type))
	if err != nil {
		return fmt.Errorf("argument %s: %w", a.Flags[0], err)
	}
	for _, choice := range a.Choices {
		if reflect.DeepEqual(choice, v.Interface()) {
			return nil
		}
	}
	return fmt.Errorf("argument %s: invalid choice: %q (choose from %s)", a.Flags[0], token, a.choiceList())
}

func (a *Argument) choiceList() string {
	l := make([]string, 0, len(a.Choices))
	for _, c := range a.Choices {
		l = append(l, fmt.Sprint(c))
	}
	return strings.Join(l, ", ")
}

// hasDefault the argument was given a default, explicitly or by inference
func (a *Argument) hasDefault() bool {
	return a.Default != NoValue
}

// placeholder the positional argument in a usage line
func (a *Argument) placeholder() string {
	name := strings.ToUpper(a.Name)
	if a.Metavar != "" {
		name = a.Metavar
	}
	switch {
	case a.arity.min == 0 && a.arity.max == 1:
		return "[" + name + "]"
	case a.arity.min == 0:
		return "[" + name + "...]"
	case a.arity.max < 0 || a.arity.max > 1:
		return name + "..."
	default:
		return "<" + name + ">"
	}
}

/////////////////////////////////////////////////////// cache ///////////////////////////////////////////////////////

// resolution is keyed by everything that changes its outcome
type resolveKey struct {
	t                    reflect.Type
	tagName              string
	ignoreUntaggedFields bool
	argumentDefault      string
}

// resolveType declares and resolves the arguments of t in field order
func resolveType(t reflect.Type, cfg *Config) ([]*Argument, error) {
	decls, err := declare(t, cfg)
	if err != nil {
		return nil, err
	}

	var (
		args   = make([]*Argument, 0, len(decls))
		names  = make(map[string]bool)
		dests  = make(map[string]bool)
		longs  = make(map[string]bool)
		shorts = make(map[string]bool)
	)
	for _, d := range decls {
		a, err := d.resolve(cfg)
		if err != nil {
			return nil, err
		}
		if names[a.Name] {
			return nil, errors.Wrapf(ErrKind, "argument %q declared more than once", a.Name)
		}
		// dests are looked up case insensitively
		dest := strings.ToLower(a.Dest)
		if dests[dest] {
			return nil, errors.Wrapf(ErrKind, "argument %q: dest %q used more than once", a.Name, a.Dest)
		}
		if longs[a.long] || (a.short != "" && shorts[a.short]) {
			return nil, errors.Wrapf(ErrKind, "argument %q: flag %q defined more than once", a.Name, a.Flags)
		}
		names[a.Name], dests[dest] = true, true
		if !a.Positional {
			longs[a.long] = true
			if a.short != "" {
				shorts[a.short] = true
			}
		}
		args = append(args, a)
	}
	return args, nil
}
