// SPDX-License-Identifier: EPL-2.0

package nodeinfo

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}
)

// HasWildcard reports whether path contains a glob metacharacter.
func HasWildcard(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// Match reports whether name matches the glob pattern. Matching is case
// insensitive, '*' crosses path separators and '?' matches one character.
// Bracket classes work as in shell globs, with '!' for negation.
func Match(pattern, name string) bool {
	return compile(pattern).MatchString(name)
}

func compile(pattern string) *regexp.Regexp {
	patternsMu.Lock()
	defer patternsMu.Unlock()

	if re, ok := patterns[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(globToRegexp(pattern))
	patterns[pattern] = re

	return re
}

func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?is)^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i+1 : i+1+end]
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			}
			b.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			b.WriteByte(']')
			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteByte('$')

	return b.String()
}
