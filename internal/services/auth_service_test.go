package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	userRepo := repos.NewUserRepo(gdb, log)
	walletRepo := repos.NewWalletRepo(gdb, log)
	return NewAuthService(gdb, log, userRepo, walletRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterLoginRefreshRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "DreamerOne", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "dreamerone", user.Username)

	// Duplicate usernames are rejected.
	_, err = auth.Register(ctx, "dreamerone", "hunter2hunter2")
	require.Error(t, err)

	loggedIn, pair, err := auth.Login(ctx, "dreamerone", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "dreamerone", claims.Username)

	refreshed, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	// A refresh token is not valid as an access token.
	_, err = auth.ValidateAccessToken(pair.RefreshToken)
	require.Error(t, err)
	// And an access token cannot be used to refresh.
	_, err = auth.Refresh(ctx, pair.AccessToken)
	require.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "walletholder", "correct-horse-battery")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "walletholder", "wrong-password")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, _, err = auth.Login(ctx, "nobody", "whatever-password")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestRegisterValidatesPasswordLength(t *testing.T) {
	auth := newAuthService(t)
	_, err := auth.Register(context.Background(), "shortpass", "short")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
}
