package pyast

import "strings"

// decodeStringLiteral decodes a Python string literal from its raw source
// text, including prefix and quotes. Bytes and f-strings are not string
// constants and are rejected; raw and unicode prefixes are accepted.
func decodeStringLiteral(raw string) (string, bool) {
	i := 0
	isRaw := false
	for i < len(raw) && raw[i] != '"' && raw[i] != '\'' {
		switch raw[i] {
		case 'r', 'R':
			isRaw = true
		case 'u', 'U':
		default:
			return "", false
		}
		i++
	}
	if i >= len(raw) {
		return "", false
	}

	quote := raw[i]
	body := raw[i:]
	triple := strings.Repeat(string(quote), 3)
	switch {
	case len(body) >= 6 && strings.HasPrefix(body, triple) && strings.HasSuffix(body, triple):
		body = body[3 : len(body)-3]
	case len(body) >= 2 && body[len(body)-1] == quote:
		body = body[1 : len(body)-1]
	default:
		return "", false
	}

	if isRaw || !strings.Contains(body, "\\") {
		return body, true
	}
	return unescape(body), true
}

// unescape handles the escape sequences that plausibly occur in export
// names. Unknown escapes pass through with their backslash.
func unescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteByte(s[i])
		case '\n':
			// line continuation
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
