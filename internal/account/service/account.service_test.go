package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"pantrypal/internal/account/model"
	"pantrypal/internal/account/repository"
	"pantrypal/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init("error")
}

const testSecret = "test-secret"

type fakeDisconnector struct {
	removed []string
}

func (f *fakeDisconnector) RemoveUser(userID string) {
	f.removed = append(f.removed, userID)
}

func newTestService(t *testing.T) (*AccountService, sqlmock.Sqlmock, *fakeDisconnector) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := &fakeDisconnector{}
	svc := NewAccountService(repository.NewAccountRepository(db), hub, testSecret, time.Hour, 5*time.Minute)
	return svc, mock, hub
}

func assertAuthCode(t *testing.T, err error, code string) {
	t.Helper()
	var authErr *model.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	assert.Equal(t, code, authErr.Code)
}

func userRow(t *testing.T, id, email, name, password string, disabled bool) *sqlmock.Rows {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "display_name", "password_hash", "disabled", "created_at"}).
		AddRow(id, email, name, hash, disabled, time.Now())
}

func TestSignUpRejectsInvalidEmail(t *testing.T) {
	svc, mock, _ := newTestService(t)

	_, err := svc.SignUp("Ava", "not-an-email", "secret1")
	assertAuthCode(t, err, model.CodeInvalidEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)

	_, err := svc.SignUp("Ava", "ava@example.com", "12345")
	assertAuthCode(t, err, model.CodeWeakPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpStoresUser(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "ava@example.com", "Ava", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user, err := svc.SignUp("Ava", "Ava@Example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "ava@example.com", user.Email, "Email is normalized")
	assert.Equal(t, "Ava", user.DisplayName)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "ava@example.com", "Ava", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := svc.SignUp("Ava", "ava@example.com", "secret1")
	assertAuthCode(t, err, model.CodeEmailInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInUnknownEmail(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ava@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.SignIn("ava@example.com", "secret1")
	assertAuthCode(t, err, model.CodeUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInDisabledAccount(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ava@example.com").
		WillReturnRows(userRow(t, "u1", "ava@example.com", "Ava", "secret1", true))

	_, err := svc.SignIn("ava@example.com", "secret1")
	assertAuthCode(t, err, model.CodeUserDisabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInWrongPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ava@example.com").
		WillReturnRows(userRow(t, "u1", "ava@example.com", "Ava", "secret1", false))

	_, err := svc.SignIn("ava@example.com", "wrong-password")
	assertAuthCode(t, err, model.CodeInvalidCredential)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInIssuesToken(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ava@example.com").
		WillReturnRows(userRow(t, "u1", "ava@example.com", "Ava", "secret1", false))

	resp, err := svc.SignIn("ava@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "Ava", resp.User.DisplayName)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "ava@example.com", claims["email"])
	authTime, ok := claims["auth_time"].(float64)
	require.True(t, ok, "auth_time claim must be present")
	assert.WithinDuration(t, time.Now(), time.Unix(int64(authTime), 0), time.Minute)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReauthenticateIssuesFreshToken(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(userRow(t, "u1", "ava@example.com", "Ava", "secret1", false))

	resp, err := svc.Reauthenticate("u1", "ava@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReauthenticateWrongPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(userRow(t, "u1", "ava@example.com", "Ava", "secret1", false))

	_, err := svc.Reauthenticate("u1", "ava@example.com", "wrong")
	assertAuthCode(t, err, model.CodeInvalidCredential)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordStaleSession(t *testing.T) {
	svc, mock, _ := newTestService(t)

	err := svc.UpdatePassword("u1", "new-password", time.Now().Add(-time.Hour))
	assertAuthCode(t, err, model.CodeRequiresRecentLogin)

	// No remote write happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordFreshSession(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.UpdatePassword("u1", "new-password", time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountStaleSession(t *testing.T) {
	svc, mock, hub := newTestService(t)

	err := svc.DeleteAccount("u1", time.Now().Add(-time.Hour))
	assertAuthCode(t, err, model.CodeRequiresRecentLogin)

	assert.Empty(t, hub.removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountDisconnectsRealtimeClients(t *testing.T) {
	svc, mock, hub := newTestService(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteAccount("u1", time.Now()))
	assert.Equal(t, []string{"u1"}, hub.removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
