package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// 验证失败的三类结果，调用方据此区分提示语；HTTP 边界统一按未认证处理
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

type Manager struct {
	secret []byte
	expire time.Duration
	issuer string
}

// Claims 身份令牌载荷：用户 id、用户名及登录时解析出的按钮权限集合
// 权限集合在令牌有效期内固定，不随库表变更刷新
type Claims struct {
	UserID      int64    `json:"sub_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	jwtlib.RegisteredClaims
}

func NewManager(secret string, expireSeconds int, issuer string) *Manager {
	return &Manager{secret: []byte(secret), expire: time.Duration(expireSeconds) * time.Second, issuer: issuer}
}

// Issue 签发 HS256 令牌；iat/exp 随签发时间变化，相同入参不同时刻产生不同令牌
func (m *Manager) Issue(userID int64, username string, permissions []string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Username:    username,
		Permissions: permissions,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expire)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify 校验签名与有效期，失败返回 ErrTokenMalformed / ErrTokenSignature / ErrTokenExpired 之一
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (m *Manager) ExpireDuration() time.Duration { return m.expire }
