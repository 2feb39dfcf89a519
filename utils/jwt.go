package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims represents JWT claims
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Scope    string `json:"scope"`
	SchoolID *uint  `json:"school_id,omitempty"`
	RoleID   uint   `json:"role_id"` // Được bảo vệ bởi chữ ký HMAC
	jwt.RegisteredClaims
}

// TokenSubject là thông tin user được nhúng vào token
type TokenSubject struct {
	UserID   uint
	Email    string
	Scope    string
	SchoolID *uint
	RoleID   uint
}

// GenerateToken tạo access token HS256
func GenerateToken(sub TokenSubject, secret, issuer string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:   sub.UserID,
		Email:    sub.Email,
		Scope:    sub.Scope,
		SchoolID: sub.SchoolID,
		RoleID:   sub.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a JWT token and verifies signature
func ValidateToken(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Chặn algorithm confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
