// Package pdftext prepares free text for the PDF core fonts, which only
// cover the Windows-1252 code page.
package pdftext

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedText is returned for runes outside the Windows-1252 code page.
var ErrUnsupportedText = errors.New("text not printable with the core fonts")

// Sanitize normalises s to NFC, turns CR/CRLF into LF and tabs into spaces,
// drops other control characters and trims trailing blanks on every line.
// Runes the core fonts cannot draw are rejected with ErrUnsupportedText.
func Sanitize(field, s string) (string, error) {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return "", fmt.Errorf("%w: %s contains unsupported character %q", ErrUnsupportedText, field, r)
		}
		b.WriteRune(r)
	}

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Wrap splits s into lines of at most width runes. See WrapFunc.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return strings.Split(s, "\n")
	}
	return WrapFunc(s, func(line string) bool { return utf8.RuneCountInString(line) <= width })
}

// WrapFunc splits s into lines accepted by fits, breaking on spaces where
// possible. Existing line breaks are kept. A word that fits on no line is cut
// at the longest prefix that does, with at least one rune per line.
func WrapFunc(s string, fits func(line string) bool) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, w := range words {
			if cur != "" {
				if joined := cur + " " + w; fits(joined) {
					cur = joined
					continue
				}
				out = append(out, cur)
				cur = ""
			}
			for utf8.RuneCountInString(w) > 1 && !fits(w) {
				head, rest := cut(w, fits)
				out = append(out, head)
				w = rest
			}
			cur = w
		}
		out = append(out, cur)
	}
	return out
}

// cut returns the longest prefix of w accepted by fits (never empty) and the rest.
func cut(w string, fits func(string) bool) (string, string) {
	r := []rune(w)
	n := 1
	for n < len(r) && fits(string(r[:n+1])) {
		n++
	}
	return string(r[:n]), string(r[n:])
}
