// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// expandFromFile replaces every token starting with one of prefixes by the lines of
// the file it names, one token per line. Files may name further files.
func expandFromFile(fs afero.Fs, prefixes string, tokens []string) ([]string, error) {
	if prefixes == "" {
		return tokens, nil
	}
	return expandTokens(fs, prefixes, tokens, nil)
}

func expandTokens(fs afero.Fs, prefixes string, tokens []string, reading []string) ([]string, error) {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" || !strings.ContainsRune(prefixes, rune(token[0])) {
			out = append(out, token)
			continue
		}

		name := token[1:]
		for _, r := range reading {
			if r == name {
				return nil, errors.Errorf("argument file %s includes itself", name)
			}
		}
		data, err := afero.ReadFile(fs, name)
		if err != nil {
			return nil, errors.Wrap(err, "argument file")
		}
		more, err := expandTokens(fs, prefixes, fileLines(string(data)), append(reading, name))
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
	}
	return out, nil
}

// fileLines an empty file has no lines; a trailing newline does not start one
func fileLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
