package util

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 会话令牌内容，SessionID 需在服务端会话存储中存在才有效
type Claims struct {
	SessionID   string `json:"sid"`
	PrincipalID string `json:"pid"`
	Kind        string `json:"kind"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(sessionID, principalID, kind, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID:   sessionID,
		PrincipalID: principalID,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid session token")
}

// GetUserIDFromContext returns the logged-in user id, or "" when absent.
func GetUserIDFromContext(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

func GetAdminIDFromContext(c *gin.Context) string {
	return c.GetString(CtxAdminID)
}
