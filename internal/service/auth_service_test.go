package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthServiceVerify(t *testing.T) {
	svc := NewAuthService("s3cret-token")

	assert.True(t, svc.Verify("s3cret-token"))
	assert.True(t, svc.Verify("  s3cret-token  "), "surrounding whitespace is tolerated")
	assert.False(t, svc.Verify("wrong"))
	assert.False(t, svc.Verify(""))
	assert.False(t, svc.Verify("s3cret-token-longer"))
}

func TestAuthServiceEmptySecretNeverVerifies(t *testing.T) {
	svc := NewAuthService("")

	assert.False(t, svc.Verify(""))
	assert.False(t, svc.Verify("anything"))
}

func TestAuthServiceVerifyHeader(t *testing.T) {
	svc := NewAuthService("s3cret-token")

	assert.True(t, svc.VerifyHeader("Bearer s3cret-token"))
	assert.True(t, svc.VerifyHeader("bearer s3cret-token"), "scheme is case-insensitive")
	assert.False(t, svc.VerifyHeader(""))
	assert.False(t, svc.VerifyHeader("s3cret-token"), "missing scheme")
	assert.False(t, svc.VerifyHeader("Basic s3cret-token"))
	assert.False(t, svc.VerifyHeader("Bearer wrong"))
}
