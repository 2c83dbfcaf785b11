package billing

import (
	"fmt"
	"strings"
)

const maxFilenamePart = 64

// SuggestedFilename returns "Inv_{number}_{customer}.pdf" with both parts
// reduced to ASCII letters, digits, '-', '.' and '_'. Path separators and
// anything else user-typed that could escape a directory are dropped.
func SuggestedFilename(number, customerName string) string {
	num := sanitizeFilenamePart(number)
	if num == "" {
		num = "000"
	}
	name := sanitizeFilenamePart(customerName)
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("Inv_%s_%s.pdf", num, name)
}

func sanitizeFilenamePart(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '.':
			// never two dots in a row
			if !strings.HasSuffix(b.String(), ".") {
				b.WriteRune(r)
			}
			lastUnderscore = false
		case r == ' ' || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._-")
	if len(out) > maxFilenamePart {
		out = strings.TrimRight(out[:maxFilenamePart], "._-")
	}
	return out
}
