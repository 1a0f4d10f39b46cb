package tokens_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shop/tokens"
)

// memoryBlacklist keeps revoked tokens in a map with their expiry.
type memoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[token] = time.Now().Add(ttl)
	return nil
}

func (b *memoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expiry, ok := b.entries[token]
	return ok && expiry.After(time.Now()), nil
}

func newService(accessExpire time.Duration) *tokens.Service {
	return tokens.NewService("access-secret", "refresh-secret", accessExpire, time.Hour, newMemoryBlacklist())
}

func TestIssueAndVerify(t *testing.T) {
	svc := newService(time.Minute)
	perms := []string{"MANAGE_ORDER.ORDER.VIEW", "MANAGE_ORDER.ORDER.UPDATE"}

	pair, err := svc.IssuePair("user-1", perms)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), pair.AccessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, perms, claims.Permissions)

	claims, err = svc.Verify(context.Background(), pair.RefreshToken, tokens.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
}

func TestVerifyExpired(t *testing.T) {
	svc := newService(-time.Second)

	pair, err := svc.IssuePair("user-1", nil)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), pair.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, tokens.ErrExpired)
}

func TestVerifyWrongClass(t *testing.T) {
	svc := newService(time.Minute)

	pair, err := svc.IssuePair("user-1", nil)
	require.NoError(t, err)

	// A refresh token must not verify against the access secret.
	_, err = svc.Verify(context.Background(), pair.RefreshToken, tokens.Access)
	assert.ErrorIs(t, err, tokens.ErrSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	svc := newService(time.Minute)

	_, err := svc.Verify(context.Background(), "not-a-token", tokens.Access)
	assert.ErrorIs(t, err, tokens.ErrMalformed)
}

func TestRevokedTokenFailsVerification(t *testing.T) {
	svc := newService(time.Minute)

	pair, err := svc.IssuePair("user-1", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), pair.AccessToken))

	_, err = svc.Verify(context.Background(), pair.AccessToken, tokens.Access)
	assert.ErrorIs(t, err, tokens.ErrRevoked)
}

func TestRefreshCarriesPermissions(t *testing.T) {
	svc := newService(time.Minute)
	perms := []string{"ADMIN.GRANTED"}

	pair, err := svc.IssuePair("user-1", perms)
	require.NoError(t, err)

	accessToken, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), accessToken, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, perms, claims.Permissions)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newService(time.Minute)

	pair, err := svc.IssuePair("user-1", nil)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrSignatureInvalid)
}
