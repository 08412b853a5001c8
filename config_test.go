package aaargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	type fromMeta struct {
		Meta     `arg:"description:Lorem Ipsum,prog:tool"`
		Filename string
	}
	p, err := New[fromMeta]()
	require.NoError(t, err)
	assert.EqualValues(t, "Lorem Ipsum", p.Settings().Description)
	assert.EqualValues(t, "tool", p.Settings().Prog)

	// options win over the Meta tag
	p, err = New[fromMeta](WithDescription("Dolor"), WithSettings(map[string]any{"epilog": "bye"}))
	require.NoError(t, err)
	assert.EqualValues(t, "Dolor", p.Settings().Description)
	assert.EqualValues(t, "tool", p.Settings().Prog)
	assert.EqualValues(t, "bye", p.Settings().Epilog)

	type plain struct {
		Filename string
	}
	p2, err := New[plain](WithSettings(map[string]any{"description": "Lorem Ipsum", "version": "1.0"}))
	require.NoError(t, err)
	assert.EqualValues(t, "Lorem Ipsum", p2.Settings().Description)
	assert.EqualValues(t, "1.0", p2.Settings().Version)
}

func TestFileAndHelpSettings(t *testing.T) {
	type cmd struct {
		Meta     `arg:"add_help:false,fromfile_prefix_chars:@"`
		Filename string
	}
	p, err := New[cmd]()
	require.NoError(t, err)
	assert.False(t, p.Settings().AddHelp)
	assert.EqualValues(t, "@", p.Settings().FromfilePrefixChars)

	p, err = New[cmd](WithAddHelp(true), WithFromfilePrefixChars("+"))
	require.NoError(t, err)
	assert.True(t, p.Settings().AddHelp)
	assert.EqualValues(t, "+", p.Settings().FromfilePrefixChars)

	type plain struct {
		Filename string
	}
	p2, err := New[plain]()
	require.NoError(t, err)
	assert.True(t, p2.Settings().AddHelp)

	// settings cobra has no counterpart for stay unknown
	for _, key := range []string{"allow_abbrev", "prefix_chars", "parents", "conflict_handler", "formatter_class"} {
		_, err = New[plain](WithSettings(map[string]any{key: "x"}))
		assert.ErrorIs(t, err, ErrUnknownOption, key)
	}
}

func TestUnknownSettings(t *testing.T) {
	type plain struct {
		Filename string
	}
	_, err := New[plain](WithSettings(map[string]any{"wrong_kwarg": "Lorem Ipsum"}))
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.ErrorContains(t, err, "wrong_kwarg")

	// library options are not settings
	_, err = New[plain](WithSettings(map[string]any{"output": "stdout"}))
	assert.ErrorIs(t, err, ErrUnknownOption)

	type fromMeta struct {
		Meta     `arg:"description:Lorem Ipsum,colour:red"`
		Filename string
	}
	_, err = New[fromMeta]()
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestMetaEscapes(t *testing.T) {
	type cmd struct {
		Meta `arg:"description:one\\, two,usage:tool [-h] FILE"`
	}
	p, err := New[cmd]()
	require.NoError(t, err)
	assert.EqualValues(t, "one, two", p.Settings().Description)

	c, err := p.Command()
	require.NoError(t, err)
	assert.EqualValues(t, "tool [-h] FILE", c.Use)
	assert.EqualValues(t, "tool", c.Name())
}
