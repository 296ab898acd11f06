package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeDigits = "0123456789"

// RandDigits 生成 n 位数字验证码，来源 crypto/rand
func RandDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeDigits))))
		if err != nil {
			return "", err
		}
		out[i] = codeDigits[idx.Int64()]
	}
	return string(out), nil
}

// MaskEmail 日志里打邮箱时遮住本地段，只留首字符
func MaskEmail(email string) string {
	for i, c := range email {
		if c == '@' {
			if i <= 1 {
				return "*" + email[i:]
			}
			return fmt.Sprintf("%c***%s", email[0], email[i:])
		}
	}
	return "***"
}
