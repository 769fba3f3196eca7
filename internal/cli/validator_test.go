package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@mail.co", "x_1@sub.domain.org"}
	for _, mail := range valid {
		assert.True(t, IsValidEmail(mail), "mail=%s", mail)
	}

	invalid := []string{"", "user", "user@", "@example.com", "user@example", "user @example.com"}
	for _, mail := range invalid {
		assert.False(t, IsValidEmail(mail), "mail=%s", mail)
	}
}

func TestIsValidMobile(t *testing.T) {
	assert.True(t, IsValidMobile("1300000001"))

	invalid := []string{"", "123456789", "12345678901", "13000abc01", "130 000001"}
	for _, mobile := range invalid {
		assert.False(t, IsValidMobile(mobile), "mobile=%s", mobile)
	}
}

func TestParseAmount(t *testing.T) {
	amount, ok := ParseAmount("1500")
	assert.True(t, ok)
	assert.Equal(t, int64(1500), amount)

	amount, ok = ParseAmount("-20")
	assert.True(t, ok)
	assert.Equal(t, int64(-20), amount)

	for _, input := range []string{"", "abc", "12.5", "1e3"} {
		_, ok := ParseAmount(input)
		assert.False(t, ok, "input=%s", input)
	}
}
