package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

// AuthService verifies the single shared bearer secret. It is stateless:
// there are no sessions and no per-user identity.
type AuthService struct {
	secret [sha256.Size]byte
	empty  bool
}

// NewAuthService constructs the service around the configured secret token.
func NewAuthService(token string) *AuthService {
	return &AuthService{secret: sha256.Sum256([]byte(token)), empty: token == ""}
}

// Verify reports whether the presented token matches the configured secret.
// Both sides are hashed before comparison so the check runs in constant time
// regardless of token length, preventing timing side channels.
func (s *AuthService) Verify(presented string) bool {
	if s.empty {
		return false
	}
	presentedSum := sha256.Sum256([]byte(strings.TrimSpace(presented)))
	return subtle.ConstantTimeCompare(s.secret[:], presentedSum[:]) == 1
}

// VerifyHeader extracts a "Bearer <token>" value and verifies it.
func (s *AuthService) VerifyHeader(header string) bool {
	if header == "" {
		return false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	return s.Verify(parts[1])
}
