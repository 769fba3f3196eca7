package cli

import (
	"regexp"
	"strconv"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidEmail 校验邮箱格式
func IsValidEmail(mail string) bool {
	return emailPattern.MatchString(mail)
}

// IsValidMobile 校验手机号（必须为10位数字）
func IsValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// ParseAmount 解析金额输入（最小货币单位的整数）
func ParseAmount(input string) (int64, bool) {
	amount, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
