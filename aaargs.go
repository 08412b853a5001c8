// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//
// Declare command line arguments with a struct
// supported type:
//
//	string, bool,
//	int, int8, int16, int32, int64,
//	uint, uint8, uint16, uint32, uint64,
//	float32, float64,
//	time.Duration, Bytes and any encoding.TextUnmarshaler
//	slices of the above
//	embedded structs (squashed)
//
// the first label holds the flags, space separated
//
// FIELD  FIELD_TYPE `arg:"FLAGS,LABEL,OTHER_LABEL:OTHER_VALUE"`
// Label:
// - name: attribute name, default is the kebab-case field name
// - short: short flag letter
// - help (or desc): description
// - default: default value, `|` separated for slices
// - choices: allowed values, `|` separated
// - metavar, dest, const, nargs (? * + N on positionals, ? with store_const on flags)
// - action: store, store_true, store_false, store_const, count, append
// - required, positional, positional:false
// - `-` skip this field
//
// e.g.
// Filename string                               -> positional FILENAME
// Encoding string `arg:"-e --encoding"`         -> -e, --encoding
// Verbose  bool                                 -> --verbose, false unless given
// DryRun   bool   `arg:",help:only print"`      -> --dry-run
// *****************************
//
// Define a struct:
//
//	type Args struct {
//		aaargs.Meta `arg:"description:count words"`
//		Filename string
//		Encoding string `arg:"-e --encoding,default:utf-8"`
//		Verbose  bool
//	}
//
// And then parse the command line:
//
//	args, err := aaargs.Parse[Args]([]string{"notes.txt", "-e", "latin-1"})
//	args := aaargs.MustNew[Args]().MustParse()
//
// or build an instance directly, without a command line:
//
//	args, err := aaargs.Construct[Args](map[string]any{"filename": "notes.txt"})
//

package aaargs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Parser builds command line parsers for T and instances of T from what they parse.
type Parser[T any] struct {
	cfg  *Config
	args []*Argument
}

var (
	resolveMu    sync.Mutex
	resolveCache = make(map[resolveKey]func() ([]*Argument, error))
)

// New checks the settings and resolves the arguments of T.
// Arguments are resolved once per type; later calls reuse them.
func New[T any](opts ...Option) (*Parser[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrKind, "expected struct got %s", t)
	}

	cfg, err := newConfig(t, opts...)
	if err != nil {
		return nil, err
	}

	args, err := resolved(t, cfg)
	if err != nil {
		return nil, err
	}

	return &Parser[T]{cfg: cfg, args: args}, nil
}

// MustNew like New, panics on a bad declaration
func MustNew[T any](opts ...Option) *Parser[T] {
	p, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses tokens into a new T
func Parse[T any](tokens []string, opts ...Option) (*T, error) {
	p, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens)
}

// Construct builds a T from attribute names to values, without parsing
func Construct[T any](values map[string]any, opts ...Option) (*T, error) {
	p, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	return p.Construct(values)
}

func resolved(t reflect.Type, cfg *Config) ([]*Argument, error) {
	key := resolveKey{
		t:                    t,
		tagName:              cfg.tagName,
		ignoreUntaggedFields: cfg.ignoreUntaggedFields,
		argumentDefault:      cfg.ArgumentDefault,
	}

	resolveMu.Lock()
	fn, ok := resolveCache[key]
	if !ok {
		fn = sync.OnceValues(func() ([]*Argument, error) {
			return resolveType(t, cfg)
		})
		resolveCache[key] = fn
	}
	resolveMu.Unlock()

	return fn()
}

/////////////////////////////////////////////////////// parser ///////////////////////////////////////////////////////

// Settings the parser settings in effect
func (p *Parser[T]) Settings() Settings {
	return p.cfg.Settings
}

// Arguments the resolved arguments, in declaration order
func (p *Parser[T]) Arguments() []Argument {
	out := make([]Argument, 0, len(p.args))
	for _, a := range p.args {
		c := *a
		c.Flags = slices.Clone(a.Flags)
		c.Choices = slices.Clone(a.Choices)
		out = append(out, c)
	}
	return out
}

func (p *Parser[T]) prog() string {
	if p.cfg.Prog != "" {
		return p.cfg.Prog
	}
	return filepath.Base(os.Args[0])
}

// Command builds a fresh command that parses the arguments of T.
// Its RunE does nothing; Parse installs its own.
func (p *Parser[T]) Command() (*cobra.Command, error) {
	cfg := p.cfg
	use := cfg.Usage
	if use == "" {
		use = usageLine(p.prog(), p.args)
	}

	cmd := &cobra.Command{
		Use:           use,
		Short:         cfg.Short,
		Long:          cfg.Description,
		Version:       cfg.Version,
		Args:          p.positionalArgs(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	if cfg.Epilog != "" {
		cmd.SetUsageTemplate(cmd.UsageTemplate() + "\n" + strings.TrimRight(cfg.Epilog, "\n") + "\n")
	}
	if cfg.output != nil {
		cmd.SetOut(cfg.output)
		cmd.SetErr(cfg.output)
	}

	if err := bindFlags(cmd, p.args); err != nil {
		return nil, err
	}
	if !cfg.AddHelp && cmd.Flags().Lookup("help") == nil {
		// cobra always adds -h/--help unless a help flag exists
		cmd.Flags().Bool("help", false, "")
		_ = cmd.Flags().MarkHidden("help")
		cmd.SetHelpFunc(func(*cobra.Command, []string) {})
	}
	return cmd, nil
}

// positionalArgs checks the number of positional tokens
func (p *Parser[T]) positionalArgs() cobra.PositionalArgs {
	min, max := 0, 0
	for _, a := range p.args {
		if !a.Positional {
			continue
		}
		min += a.arity.min
		if max >= 0 {
			if a.arity.max < 0 {
				max = -1
			} else {
				max += a.arity.max
			}
		}
	}

	switch {
	case max < 0:
		return cobra.MinimumNArgs(min)
	case min == max:
		return cobra.ExactArgs(min)
	default:
		return cobra.RangeArgs(min, max)
	}
}

// Parse parses tokens into a new T.
// Help and version requests are printed and reported as ErrHelp.
func (p *Parser[T]) Parse(tokens []string) (*T, error) {
	return p.ParseInto(tokens, nil)
}

// ParseInto like Parse; namespace values, keyed by dest, take the place of defaults.
func (p *Parser[T]) ParseInto(tokens []string, namespace map[string]any) (*T, error) {
	cmd, err := p.Command()
	if err != nil {
		return nil, err
	}

	var result map[string]any
	cmd.RunE = func(cmd *cobra.Command, positional []string) (err error) {
		result, err = p.collect(cmd, positional, namespace)
		return err
	}

	tokens, err = expandFromFile(p.cfg.fs, p.cfg.FromfilePrefixChars, tokens)
	if err != nil {
		return nil, err
	}
	// nil args make cobra read os.Args
	if tokens == nil {
		tokens = []string{}
	}
	cmd.SetArgs(tokens)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if result == nil {
		if !p.cfg.AddHelp && cmd.Flags().Changed("help") {
			return nil, errors.New("unknown flag: --help")
		}
		return nil, ErrHelp
	}

	return p.fromResult(result)
}

// MustParse parses os.Args; on help exits 0, on a parse error prints it with the usage and exits 2.
func (p *Parser[T]) MustParse() *T {
	v, err := p.Parse(os.Args[1:])
	if err == nil {
		return v
	}
	if errors.Is(err, ErrHelp) {
		os.Exit(0)
	}

	var w io.Writer = os.Stderr
	if p.cfg.output != nil {
		w = p.cfg.output
	}
	fmt.Fprintf(w, "%s: %s\n", p.prog(), err)
	if isDeclarationError(err) {
		os.Exit(1)
	}
	if cmd, cerr := p.Command(); cerr == nil {
		cmd.SetErr(w)
		_ = cmd.Usage()
	}
	os.Exit(2)
	return nil
}

/////////////////////////////////////////////////////// collect ///////////////////////////////////////////////////////

// collect layers parsed values over environment, namespace and defaults, keyed by dest.
// Values from the environment and the namespace are checked like parsed tokens.
func (p *Parser[T]) collect(cmd *cobra.Command, positional []string, namespace map[string]any) (map[string]any, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	if p.cfg.EnvPrefix != "" {
		v.SetEnvPrefix(p.cfg.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
	}

	result := make(map[string]any, len(p.args)+len(namespace))
	for k, val := range namespace {
		if a := p.byDest(k); a != nil {
			k = a.Dest
		}
		v.SetDefault(k, val)
		result[k] = nil
	}

	parsed := make(map[*Argument]bool, len(p.args))
	var posArgs []*Argument
	for _, a := range p.args {
		result[a.Dest] = nil
		if a.hasDefault() && !inNamespace(namespace, a.Dest) {
			v.SetDefault(a.Dest, a.Default)
		}
		if a.Positional {
			posArgs = append(posArgs, a)
			continue
		}

		f := cmd.Flags().Lookup(a.long)
		if f == nil || !f.Changed {
			continue
		}
		parsed[a] = true
		if a.Action == ActionStoreConst {
			v.Set(a.Dest, a.Const)
			continue
		}
		val, err := a.parseTokens(flagStrings(f))
		if err != nil {
			return nil, err
		}
		v.Set(a.Dest, val)
	}

	for i, tokens := range distribute(posArgs, positional) {
		a := posArgs[i]
		if len(tokens) == 0 {
			continue
		}
		parsed[a] = true
		val, err := a.parseTokens(tokens)
		if err != nil {
			return nil, err
		}
		v.Set(a.Dest, val)
	}

	for k := range result {
		result[k] = v.Get(k)
	}
	for _, a := range p.args {
		val := result[a.Dest]
		if parsed[a] || val == nil || (a.hasDefault() && reflect.DeepEqual(val, a.Default)) {
			continue
		}
		val, err := a.accept(val)
		if err != nil {
			return nil, err
		}
		result[a.Dest] = val
	}
	return result, nil
}

// byDest the argument stored under dest, nil if none
func (p *Parser[T]) byDest(dest string) *Argument {
	for _, a := range p.args {
		if strings.EqualFold(a.Dest, dest) {
			return a
		}
	}
	return nil
}

func inNamespace(namespace map[string]any, dest string) bool {
	for k := range namespace {
		if strings.EqualFold(k, dest) {
			return true
		}
	}
	return false
}

// distribute positional tokens left to right: each argument takes its minimum,
// optional ones take what is left over the minimum of the arguments after them.
func distribute(args []*Argument, tokens []string) [][]string {
	out := make([][]string, len(args))
	rest := tokens
	for i, a := range args {
		need := 0
		for _, b := range args[i+1:] {
			need += b.arity.min
		}

		n := a.arity.min
		if extra := len(rest) - need - n; extra > 0 {
			if a.arity.max < 0 {
				n += extra
			} else {
				n += min(extra, a.arity.max-a.arity.min)
			}
		}
		n = min(n, len(rest))
		out[i], rest = rest[:n], rest[n:]
	}
	return out
}

/////////////////////////////////////////////////////// construct ///////////////////////////////////////////////////////

// fromResult checks the parsed result is keyed by the attribute names, then constructs
func (p *Parser[T]) fromResult(result map[string]any) (*T, error) {
	known := make(map[string]bool, len(p.args))
	var missing, unexpected []string
	for _, a := range p.args {
		known[a.Name] = true
		if _, ok := result[a.Name]; !ok {
			missing = append(missing, a.Name)
		}
	}
	for k := range result {
		if !known[k] {
			unexpected = append(unexpected, k)
		}
	}

	if len(missing) != 0 || len(unexpected) != 0 {
		sort.Strings(unexpected)
		return nil, errors.Wrapf(ErrNameMismatch,
			"arguments %q not in parsed result %q: check that the attribute names match the flag names,"+
				" e.g. `arg:\"--filename\"` on Filename", missing, unexpected)
	}

	values := make(map[string]any, len(result))
	for k, val := range result {
		if val != nil {
			values[k] = val
		}
	}
	return p.construct(values, true)
}

// Construct builds a T from attribute names to values.
// Arguments left out take their default; an argument without one is required.
func (p *Parser[T]) Construct(values map[string]any) (*T, error) {
	return p.construct(values, false)
}

// construct, parsed is true when values come from a parse and may leave out defaultless arguments
func (p *Parser[T]) construct(values map[string]any, parsed bool) (*T, error) {
	known := make(map[string]bool, len(p.args))
	for _, a := range p.args {
		known[a.Name] = true
	}
	var unexpected []string
	for k := range values {
		if !known[k] {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) != 0 {
		sort.Strings(unexpected)
		return nil, errors.Wrapf(ErrKind, "unexpected arguments %q", unexpected)
	}

	in := make(map[string]any, len(p.args))
	var missing []string
	for _, a := range p.args {
		val, ok := values[a.Name]
		switch {
		case ok:
			in[a.Field] = val
		case a.hasDefault():
			in[a.Field] = a.Default
		case !parsed:
			missing = append(missing, a.Name)
		}
	}
	if len(missing) != 0 {
		return nil, errors.Wrapf(ErrKind, "missing required arguments %q", missing)
	}

	out := new(T)
	if err := decode(in, out); err != nil {
		return nil, errors.Wrapf(ErrValue, "%s", err)
	}
	return out, nil
}

// decode matches map keys to field names; embedded structs are squashed
func decode(in map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Squash:           true,
		TagName:          decodeTagName,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}

// no field carries this tag, so fields are matched by their Go name
const decodeTagName = "aaargs.field"
