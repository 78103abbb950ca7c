// normalize.go tidies markdown received from chat backends before rendering.
package md

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	escapePattern      = regexp.MustCompile(`\\[\\nrt"'bf]|\\u([0-9a-fA-F]{4})`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
	nbspPattern        = regexp.MustCompile(`&nbsp;|\x{00A0}`)
	escapeReplacements = map[string]string{
		`\\`: `\`,
		`\n`: "\n",
		`\r`: "\r",
		`\t`: "\t",
		`\"`: `"`,
		`\'`: `'`,
		`\b`: "\b",
		`\f`: "\f",
	}
)

// Unescape replaces backslash escape sequences that arrive as literal text
// (for example a JSON-encoded payload rendered without decoding).
func Unescape(s string) string {
	return escapePattern.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, `\u`) {
			code, err := strconv.ParseUint(m[2:], 16, 32)
			if err != nil {
				return m
			}
			return string(rune(code))
		}
		if r, ok := escapeReplacements[m]; ok {
			return r
		}
		return m
	})
}

// Normalize unescapes s, normalizes line endings, collapses runs of blank
// lines and replaces non-breaking spaces.
func Normalize(s string) string {
	s = Unescape(s)
	s = strings.ReplaceAll(s, `\\n`, "\n")
	s = strings.ReplaceAll(s, `\\t`, "\t")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	s = nbspPattern.ReplaceAllString(s, " ")
	return s
}
