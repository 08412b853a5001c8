// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import (
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/zincware/aaargs/lib/stringx"
)

// Meta carries parser settings in its tag when embedded in an argument struct:
//
//	type Args struct {
//		aaargs.Meta `arg:"prog:wc,description:count words"`
//		Filename string
//	}
type Meta struct{}

var metaType = reflect.TypeOf(Meta{})

type (
	Option func(*Config)
	// Settings the keyed parser settings. They come from the Meta tag first,
	// then from options, and are checked against the fields below.
	Settings struct {
		// Prog the program name, default is the base name of os.Args[0]
		Prog string `mapstructure:"prog"`
		// Usage replaces the generated usage line
		Usage       string `mapstructure:"usage"`
		Description string `mapstructure:"description"`
		// Short one line description, shown in front of the usage
		Short  string `mapstructure:"short"`
		Epilog string `mapstructure:"epilog"`
		// Version adds a --version flag
		Version string `mapstructure:"version"`
		// ArgumentDefault the default of optional arguments declared without one
		ArgumentDefault string `mapstructure:"argument_default"`
		// EnvPrefix when set, PREFIX_NAME environment variables fill arguments missing from the command line
		EnvPrefix string `mapstructure:"env_prefix"`
		// AddHelp adds -h/--help, default is true.
		// Without it -h is free for arguments and --help is an unknown flag.
		AddHelp bool `mapstructure:"add_help"`
		// FromfilePrefixChars tokens starting with one of these characters name a file
		// whose lines are read as more tokens, e.g. "@" for @args.txt
		FromfilePrefixChars string `mapstructure:"fromfile_prefix_chars"`
	}
	Config struct {
		Settings

		settings map[string]any
		// The tag name that declares arguments, default is "arg"
		tagName string
		// ignoreUntaggedFields ignores all struct fields without explicit tag, default is "false"
		ignoreUntaggedFields bool
		// help, usage and errors
		output io.Writer
		// where fromfile_prefix_chars files are read
		fs afero.Fs
	}
)

/////////////////////////////////////////////////////// option ///////////////////////////////////////////////////////

// WithSettings keyed parser settings, e.g. {"description": "..."}; unknown keys fail New
func WithSettings(settings map[string]any) Option {
	return func(cfg *Config) {
		for k, v := range settings {
			cfg.settings[k] = v
		}
	}
}

func WithProg(prog string) Option {
	return WithSettings(map[string]any{"prog": prog})
}

func WithDescription(desc string) Option {
	return WithSettings(map[string]any{"description": desc})
}

func WithEpilog(epilog string) Option {
	return WithSettings(map[string]any{"epilog": epilog})
}

func WithVersion(version string) Option {
	return WithSettings(map[string]any{"version": version})
}

// WithEnvPrefix fill missing arguments from PREFIX_NAME environment variables
func WithEnvPrefix(prefix string) Option {
	return WithSettings(map[string]any{"env_prefix": prefix})
}

// WithAddHelp turn -h/--help on or off
func WithAddHelp(add bool) Option {
	return WithSettings(map[string]any{"add_help": add})
}

// WithFromfilePrefixChars expand tokens such as @args.txt into the lines of the file
func WithFromfilePrefixChars(chars string) Option {
	return WithSettings(map[string]any{"fromfile_prefix_chars": chars})
}

// WithFs the filesystem argument files are read from, default is the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(cfg *Config) {
		cfg.fs = fs
	}
}

// WithTagName custom tag name
func WithTagName(tag string) Option {
	return func(cfg *Config) {
		cfg.tagName = tag
	}
}

// WithIgnoreUntaggedFieldsOption .
func WithIgnoreUntaggedFieldsOption(ignore bool) Option {
	return func(cfg *Config) {
		cfg.ignoreUntaggedFields = ignore
	}
}

// WithOutput where help, usage and error messages go, default is stdout/stderr
func WithOutput(w io.Writer) Option {
	return func(cfg *Config) {
		cfg.output = w
	}
}

/////////////////////////////////////////////////////// implement ///////////////////////////////////////////////////////

func defaultConfig(opts ...Option) *Config {
	cfg := &Config{
		Settings: Settings{AddHelp: true},
		tagName:  TagName,
		settings: make(map[string]any),
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// newConfig applies the options, then the Meta tag of t, then decodes the keyed settings
func newConfig(t reflect.Type, opts ...Option) (*Config, error) {
	cfg := defaultConfig(opts...)

	settings := metaSettings(t, cfg.tagName)
	for k, v := range cfg.settings {
		settings[k] = v
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		WeaklyTypedInput: true,
		Result:           &cfg.Settings,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrapf(ErrValue, "parser settings: %s", err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return nil, errors.Wrapf(ErrUnknownOption, "parser %s has no attribute %q", t, md.Unused)
	}

	return cfg, nil
}

// metaSettings the labels of the first Meta field tag
func metaSettings(t reflect.Type, tagName string) map[string]any {
	settings := make(map[string]any)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type != metaType {
			continue
		}
		for _, label := range stringx.SplitLabels(field.Tag.Get(tagName), TagLabelSep) {
			k, v, _ := strings.Cut(label, ":")
			if k = strings.TrimSpace(k); k != "" {
				settings[k] = v
			}
		}
		break
	}
	return settings
}
