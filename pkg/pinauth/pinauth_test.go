package pinauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	// 必须是4位数字
	invalid := []string{"", "123", "12345", "12a4", "abcd", " 1234", "１２３４"}
	for _, pin := range invalid {
		_, err := Hash(pin)
		assert.ErrorIs(t, err, ErrInvalidPinFormat, "pin=%q", pin)
	}

	stored, err := Hash("1234")
	require.NoError(t, err)

	// 存储格式为 salt$hash，且不包含明文
	parts := strings.Split(stored, "$")
	assert.Len(t, parts, 2)
	assert.NotContains(t, stored, "1234")
}

func TestHashSalted(t *testing.T) {
	// 同一 PIN 两次哈希结果不同（盐随机），但都可通过校验
	first, err := Hash("0000")
	require.NoError(t, err)
	second, err := Hash("0000")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("0000", first))
	assert.True(t, Verify("0000", second))
}

func TestVerify(t *testing.T) {
	stored, err := Hash("1234")
	require.NoError(t, err)

	assert.True(t, Verify("1234", stored))
	assert.False(t, Verify("4321", stored))
	assert.False(t, Verify("123", stored))
	assert.False(t, Verify("1234", ""))
	assert.False(t, Verify("1234", "垃圾数据"))
	assert.False(t, Verify("1234", "notbase64$alsonotbase64!"))
}
