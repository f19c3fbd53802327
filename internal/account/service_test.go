package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/store"
	"github.com/avelaro/shortly/internal/token"
)

func newTestService(t *testing.T) (*account.Service, *store.MemoryAccountStore) {
	t.Helper()

	issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	repo := store.NewMemoryAccountStore()

	return account.NewService(repo, issuer, zap.NewNop()), repo
}

func signUpAda(t *testing.T, svc *account.Service) *account.Account {
	t.Helper()

	acct, err := svc.SignUp(context.Background(), "Ada", "Lovelace", "Ada@Example.com", "ada", "correct-horse")
	require.NoError(t, err)

	return acct
}

func TestSignUp(t *testing.T) {
	t.Run("creates account with normalized email and hashed password", func(t *testing.T) {
		svc, _ := newTestService(t)

		acct := signUpAda(t, svc)

		assert.NotEmpty(t, acct.ID)
		assert.Equal(t, "ada@example.com", acct.Email)
		assert.False(t, acct.EmailVerified)
		assert.NotEqual(t, "correct-horse", acct.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("correct-horse")))
	})

	t.Run("second signup with same email conflicts", func(t *testing.T) {
		svc, _ := newTestService(t)
		signUpAda(t, svc)

		_, err := svc.SignUp(context.Background(), "Ada", "Lovelace", "ADA@example.com", "ada2", "correct-horse")

		assert.ErrorIs(t, err, account.ErrEmailTaken)
	})

	t.Run("second signup with same username conflicts", func(t *testing.T) {
		svc, _ := newTestService(t)
		signUpAda(t, svc)

		_, err := svc.SignUp(context.Background(), "Another", "Ada", "other@example.com", "ada", "correct-horse")

		assert.ErrorIs(t, err, account.ErrUsernameTaken)
	})

	t.Run("store constraint wins when the pre-check missed a racer", func(t *testing.T) {
		svc, repo := newTestService(t)

		// A concurrent signup lands between the pre-check and the
		// insert; simulate by inserting directly into the store.
		require.NoError(t, repo.Create(context.Background(), &account.Account{
			Email:    "ada@example.com",
			Username: "ada",
		}))

		_, err := svc.SignUp(context.Background(), "Ada", "Lovelace", "ada@example.com", "someone-else", "correct-horse")

		assert.ErrorIs(t, err, account.ErrEmailTaken)
	})
}

func TestSignIn(t *testing.T) {
	t.Run("correct password yields a verifiable token", func(t *testing.T) {
		svc, _ := newTestService(t)
		signUpAda(t, svc)

		result, err := svc.SignIn(context.Background(), "ada", "correct-horse")

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.False(t, result.EmailVerified)
		assert.Equal(t, "ada@example.com", result.Email)

		issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour)
		require.NoError(t, err)

		claims, err := issuer.Verify(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "ada", claims.Username)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, _ := newTestService(t)
		signUpAda(t, svc)

		_, err := svc.SignIn(context.Background(), "ada", "wrong-password")

		assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	})

	t.Run("unknown username is indistinguishable from wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.SignIn(context.Background(), "nobody", "whatever")

		assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	})

	t.Run("reflects verification status", func(t *testing.T) {
		svc, repo := newTestService(t)
		signUpAda(t, svc)

		require.NoError(t, repo.SetEmailVerified(context.Background(), "ada@example.com"))

		result, err := svc.SignIn(context.Background(), "ada", "correct-horse")

		require.NoError(t, err)
		assert.True(t, result.EmailVerified)
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes the account", func(t *testing.T) {
		svc, repo := newTestService(t)
		acct := signUpAda(t, svc)

		require.NoError(t, svc.Delete(context.Background(), acct))

		_, err := repo.GetByUsername(context.Background(), "ada")
		assert.ErrorIs(t, err, account.ErrNotFound)
	})
}
