// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package stringx

import (
	"strings"

	"github.com/huandu/xstrings"
)

// SplitLabels splits a tag into labels on sep.
// A separator preceded by "\" belongs to the label: `help:a\,b` -> ["help:a,b"]
func SplitLabels(s, sep string) []string {
	names := strings.Split(s, sep)
	labels := make([]string, 0, len(names))
	for i := 0; i < len(names); i++ {
		label := names[i]
		for strings.HasSuffix(label, `\`) && i+1 < len(names) {
			i++
			label = label[:len(label)-1] + sep + names[i]
		}
		labels = append(labels, label)
	}
	return labels
}

// Split Like strings.Split, but remove the spaces from each string and drop the empty ones.
func Split(s0, sep string) []string {
	s := strings.TrimSpace(s0)
	if len(s) == 0 {
		return nil
	}

	l := strings.Split(s, sep)
	r := l[:0]
	for _, str := range l {
		if str = strings.TrimSpace(str); str != "" {
			r = append(r, str)
		}
	}

	return r
}

// Kebab field name to argument name
// DryRun -> dry-run, TCPAddr -> tcp-addr
func Kebab(name string) string {
	return xstrings.ToKebabCase(name)
}

// TrimDashes --name -> name, -n -> n
func TrimDashes(flag string) string {
	return strings.TrimLeft(flag, "-")
}

// IsFlag reports whether s looks like an optional argument flag rather than a positional name
func IsFlag(s string) bool {
	return strings.HasPrefix(s, "-")
}
