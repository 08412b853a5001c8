package aaargs

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLines(t *testing.T) {
	for _, _case := range []struct {
		text     string
		expected []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"-e\nutf-8", []string{"-e", "utf-8"}},
		{"-e\r\nutf-8\r\n", []string{"-e", "utf-8"}},
		{"a b\n\nc\n", []string{"a b", "", "c"}},
	} {
		assert.EqualValues(t, _case.expected, fileLines(_case.text), "%q", _case.text)
	}
}

func TestExpandFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("x\n+b.txt\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "b.txt", []byte("y\n"), 0o644))

	tokens, err := expandFromFile(fs, "@+", []string{"@a.txt", "z", "+b.txt", ""})
	require.NoError(t, err)
	assert.EqualValues(t, []string{"x", "y", "z", "y", ""}, tokens)

	tokens, err = expandFromFile(fs, "", []string{"@a.txt"})
	require.NoError(t, err)
	assert.EqualValues(t, []string{"@a.txt"}, tokens)
}
