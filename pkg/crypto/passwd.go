package crypto

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 生成 bcrypt 摘要，成本取默认值
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword 校验口令；存量明文记录走常数时间比较，登录成功后由调用方异步升级为 bcrypt
func VerifyPassword(stored, plain string) bool {
	if IsLegacyPlaintext(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// IsLegacyPlaintext 判断是否为未升级的明文记录（非 bcrypt 前缀）
func IsLegacyPlaintext(stored string) bool {
	return !strings.HasPrefix(stored, "$2a$") && !strings.HasPrefix(stored, "$2b$") && !strings.HasPrefix(stored, "$2y$")
}
