package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GazaBreda/PayMe/internal/core"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrWrongPurpose = errors.New("token not valid for this operation")
)

// Token purposes. A session token must never be accepted where a reset
// token is required, and vice versa.
const (
	PurposeSession = "session"
	PurposeReset   = "reset"
)

// JWTManager signs and validates the tokens issued by the identity
// boundary.
type JWTManager struct {
	secretKey       []byte
	sessionDuration time.Duration
	resetDuration   time.Duration
}

// Claims carries the user identity and the token's purpose.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey string, sessionDuration, resetDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secretKey),
		sessionDuration: sessionDuration,
		resetDuration:   resetDuration,
	}
}

// GenerateSession creates a session token for the user.
func (m *JWTManager) GenerateSession(user *core.User) (string, error) {
	return m.generate(user, PurposeSession, m.sessionDuration)
}

// GenerateReset creates a short-lived token that only ResetPassword
// accepts.
func (m *JWTManager) GenerateReset(user *core.User) (string, error) {
	return m.generate(user, PurposeReset, m.resetDuration)
}

func (m *JWTManager) generate(user *core.User, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses the token and checks it carries the expected purpose.
func (m *JWTManager) Validate(tokenString, purpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}
