package services

import (
	"context"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// contendedStore lets another writer update the user row between the read
// and the write of the first attempt.
type contendedStore struct {
	repositories.Store
	attempts int
}

func (s *contendedStore) WithTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx repositories.Tx) error {
		return fn(contendedTx{Tx: tx, store: s})
	})
}

type contendedTx struct {
	repositories.Tx
	store *contendedStore
}

func (t contendedTx) Users() repositories.UserRepository {
	return contendedUsers{UserRepository: t.Tx.Users(), store: t.store}
}

type contendedUsers struct {
	repositories.UserRepository
	store *contendedStore
}

func (r contendedUsers) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.UserRepository.UpdateWithRetry(ctx, id, func(u *models.User) error {
		r.store.attempts++
		if r.store.attempts == 1 {
			other, err := r.UserRepository.GetByID(ctx, id)
			if err != nil {
				return err
			}
			other.Name = "Renamed Elsewhere"
			if err := repositories.SaveIfVersion(ctx, other, r.UserRepository.UpdateIfVersion); err != nil {
				return err
			}
		}
		return mutate(u)
	})
}

func TestUpdateProfile_RetriesOnConcurrentWrite(t *testing.T) {
	env := newTestEnv(t)
	u, s := env.activeAssociate(t, "busy@example.com")

	store := &contendedStore{Store: env.store}
	associates := NewAssociateService(store, env.messenger, env.publisher, "http://localhost:8080")

	got, err := associates.UpdateProfile(env.ctx, s, dtos.UpdateProfileRequest{Address: utils.Ptr("7 Marine Drive")})
	require.NoError(t, err)
	require.Equal(t, 2, store.attempts)
	require.Equal(t, "7 Marine Drive", got.Address)
	require.Equal(t, "Renamed Elsewhere", got.Name, "the other write is kept")
	require.Equal(t, u.RowVersion+2, got.RowVersion)
}

func TestSetNewPassword_RetriesOnConcurrentWrite(t *testing.T) {
	env := newTestEnv(t)
	u, temp, err := env.associates.CreateAssociate(env.ctx, env.adminSess, dtos.CreateAssociateRequest{
		Name: "Walk In", Email: "walkin@example.com", Phone: "+919800000009",
	})
	require.NoError(t, err)

	store := &contendedStore{Store: env.store}
	cfg := &config.Config{RSAPrivateKey: testKey, RSAPublicKey: &testKey.PublicKey, AccessTokenTTL: time.Hour}
	auth := NewAuthService(store, repositories.NewMemoryRevocationStore(), NewJWTService(cfg), env.publisher)

	res, err := auth.Login(env.ctx, u.UniqueID, temp)
	require.NoError(t, err)

	fresh, err := auth.SetNewPassword(env.ctx, res.Session, dtos.SetNewPasswordRequest{
		CurrentPassword: temp, NewPassword: "Brand@New123",
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.attempts)
	require.False(t, fresh.User.RequiresPasswordChange)
	require.Equal(t, "Renamed Elsewhere", fresh.User.Name)

	_, err = auth.Login(env.ctx, u.UniqueID, "Brand@New123")
	require.NoError(t, err)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ghost := models.Session{UserID: uuid.New(), Role: models.RoleAssociate}
	_, err := env.associates.UpdateProfile(env.ctx, ghost, dtos.UpdateProfileRequest{Address: utils.Ptr("x")})
	var nf *lifecycle.NotFoundError
	require.ErrorAs(t, err, &nf)
}
