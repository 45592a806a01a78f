package devwallets

import "strings"

// Sanitize maps a user identifier to a file-safe key by replacing every rune
// outside [A-Za-z0-9_.@-] with '_'. The mapping is not injective: "a/b" and
// "a b" share the key "a_b".
func Sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '@', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
}

func profileKey(id string) string {
	return Sanitize(id) + ".wallet.json"
}

func historyKey(id string) string {
	return Sanitize(id) + ".history.json"
}
