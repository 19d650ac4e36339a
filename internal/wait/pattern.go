package wait

import (
	"regexp"
	"strings"
)

// matchPattern supports three pattern forms against the rendered buffer
// text: a literal substring, a /regex/, or a glob with *, ?.
func matchPattern(text, pattern string) (bool, string) {
	if len(pattern) >= 2 && pattern[0] == '/' && pattern[len(pattern)-1] == '/' {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return false, ""
		}
		if loc := re.FindString(text); loc != "" || re.MatchString(text) {
			return true, re.FindString(text)
		}
		return false, ""
	}
	if strings.ContainsAny(pattern, "*?") {
		re, err := regexp.Compile(globToRegexp(pattern))
		if err != nil {
			return false, ""
		}
		if re.MatchString(text) {
			return true, re.FindString(text)
		}
		return false, ""
	}
	if strings.Contains(text, pattern) {
		return true, pattern
	}
	return false, ""
}

func globToRegexp(glob string) string {
	var sb strings.Builder
	sb.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteByte('$')
	// Glob matching is typically whole-string; but for scanning within a
	// larger screen, drop the anchors and allow substring search instead.
	return strings.TrimSuffix(strings.TrimPrefix(sb.String(), "^"), "$")
}
