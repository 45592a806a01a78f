package devwallets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"safe", "user_1.test@mail-x", "user_1.test@mail-x"},
		{"slash", "../etc/passwd", ".._etc_passwd"},
		{"space", "a b", "a_b"},
		{"unicode", "пользователь", "____________"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_NotInjective(t *testing.T) {
	assert.Equal(t, Sanitize("a/b"), Sanitize("a b"))
	assert.Equal(t, "a_b.wallet.json", profileKey("a/b"))
	assert.Equal(t, "a_b.history.json", historyKey("a?b"))
}
