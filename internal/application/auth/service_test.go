package auth

import (
	"context"
	"testing"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Fullname: "Kofi Asante",
		Email:    "kofi@test.com",
		Password: "s3cret-pass",
		Role:     domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	got, err := svc.Login(context.Background(), LoginInput{Email: "kofi@test.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Fullname: "Kofi Asante",
		Email:    "kofi@test.com",
		Password: "s3cret-pass",
		Role:     domain.RoleStudent,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Fullname: "Other Kofi",
		Email:    "kofi@test.com",
		Password: "other-pass1",
		Role:     domain.RoleLandlord,
	})
	var ce *apperrors.ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Fullname: "Kofi Asante",
		Email:    "kofi@test.com",
		Password: "s3cret-pass",
		Role:     domain.RoleStudent,
	})
	require.NoError(t, err)

	var ve *apperrors.ValidationError
	_, err = svc.Login(context.Background(), LoginInput{Email: "kofi@test.com", Password: "wrong"})
	assert.ErrorAs(t, err, &ve)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@test.com", Password: "s3cret-pass"})
	assert.ErrorAs(t, err, &ve)
}
