package pinauth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ============================================================================
// PIN 认证
// ============================================================================
//
// PIN 固定为 4 位数字，使用 PBKDF2+SHA256 加盐哈希，
// 存储格式为 "salt$hash"（base64），明文不落库、不可还原。
// 校验使用常数时间比较，避免时序侧信道。

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 100_000
)

var ErrInvalidPinFormat = errors.New("PIN 必须为 4 位数字")

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Hash 生成 PIN 的加盐哈希
func Hash(pin string) (string, error) {
	if !pinPattern.MatchString(pin) {
		return "", ErrInvalidPinFormat
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("生成盐失败: %w", err)
	}

	hash := pbkdf2.Key([]byte(pin), salt, iterations, keyLen, sha256.New)
	saltStr := base64.RawStdEncoding.EncodeToString(salt)
	hashStr := base64.RawStdEncoding.EncodeToString(hash)

	return saltStr + "$" + hashStr, nil
}

// Verify 校验明文 PIN 与存储哈希是否匹配
func Verify(pin, stored string) bool {
	if !pinPattern.MatchString(pin) || stored == "" {
		return false
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	hash := pbkdf2.Key([]byte(pin), salt, iterations, len(expected), sha256.New)

	// 常数时间比较
	return subtle.ConstantTimeCompare(hash, expected) == 1
}
