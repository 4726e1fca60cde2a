package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenBytes = 32 // 256 bits of entropy

// NewSessionToken mints an opaque session token together with its
// sha256 digest. Only the digest is ever persisted.
func NewSessionToken() (string, []byte, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, HashSessionToken(token), nil
}

func HashSessionToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

const FolderScope = "folder"

// FolderClaims is the short-lived authorization artifact issued by the
// folder gate. Document handlers require it in addition to the session.
type FolderClaims struct {
	UserID string `json:"uid"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateFolderToken(secret string, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := FolderClaims{
		UserID: userID,
		Scope:  FolderScope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign folder token: %w", err)
	}
	return signed, nil
}

func ParseFolderToken(tokenStr string, secret string) (*FolderClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &FolderClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*FolderClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid folder token")
	}
	if claims.Scope != FolderScope {
		return nil, fmt.Errorf("wrong token scope")
	}
	return claims, nil
}
