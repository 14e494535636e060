package auth_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"blog/internal/auth"
	"blog/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestSignupAndLogin(t *testing.T) {
	st := newTestStore(t)
	name := gofakeit.Name()
	email := gofakeit.Email()

	require.NoError(t, auth.Signup(st, name, email, "pw1"))

	acct, err := auth.Login(st, email, "pw1")
	require.NoError(t, err)
	require.Equal(t, email, acct.Email)
	require.Equal(t, name, acct.Name)
	require.Equal(t, auth.RoleUser, acct.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	st := newTestStore(t)
	email := gofakeit.Email()
	require.NoError(t, auth.Signup(st, gofakeit.Name(), email, "correct"))

	_, err := auth.Login(st, email, "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = auth.Login(st, "nobody@example.com", "whatever")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignupDuplicateAcrossBothLists(t *testing.T) {
	st := newTestStore(t)

	userEmail := gofakeit.Email()
	require.NoError(t, auth.Signup(st, gofakeit.Name(), userEmail, "pw"))
	err := auth.Signup(st, gofakeit.Name(), userEmail, "other")
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)

	adminEmail := gofakeit.Email()
	require.NoError(t, auth.EnsureAdmin(st, adminEmail, "pw", "Boss"))
	err = auth.Signup(st, gofakeit.Name(), adminEmail, "other")
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestSignupEmailIsCaseSensitive(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, auth.Signup(st, gofakeit.Name(), "Alice@x.com", "pw"))
	require.NoError(t, auth.Signup(st, gofakeit.Name(), "alice@x.com", "pw"))

	users, err := st.Users()
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestSignupMissingFields(t *testing.T) {
	st := newTestStore(t)
	require.ErrorIs(t, auth.Signup(st, "", gofakeit.Email(), "pw"), auth.ErrMissingFields)
	require.ErrorIs(t, auth.Signup(st, gofakeit.Name(), "", "pw"), auth.ErrMissingFields)
	require.ErrorIs(t, auth.Signup(st, gofakeit.Name(), gofakeit.Email(), ""), auth.ErrMissingFields)
}

func TestAdminLogin(t *testing.T) {
	st := newTestStore(t)
	email := gofakeit.Email()
	require.NoError(t, auth.EnsureAdmin(st, email, "s3cret", "Boss"))

	acct, err := auth.Login(st, email, "s3cret")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, acct.Role)
	require.Equal(t, "Boss", acct.Name)
}

func TestAdminNotConfigured(t *testing.T) {
	st := newTestStore(t)
	email := gofakeit.Email()
	require.NoError(t, auth.EnsureAdmin(st, email, "", "Boss"))

	_, err := auth.Login(st, email, "anything")
	require.ErrorIs(t, err, auth.ErrAdminNotConfigured)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	st := newTestStore(t)
	email := gofakeit.Email()
	require.NoError(t, auth.EnsureAdmin(st, email, "pw", "Boss"))
	require.NoError(t, auth.EnsureAdmin(st, email, "pw", "Boss"))

	admins, err := st.Admins()
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestMemorySessions(t *testing.T) {
	sessions := auth.NewMemorySessions(time.Hour)
	acct := auth.Account{Email: gofakeit.Email(), Name: gofakeit.Name(), Role: auth.RoleUser}

	sess := sessions.Create(acct)
	require.NotEmpty(t, sess.ID)
	require.Equal(t, acct.Email, sess.Email)
	require.Equal(t, acct.Role, sess.Role)

	got, ok := sessions.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, sess.Email, got.Email)

	sessions.Delete(sess.ID)
	_, ok = sessions.Get(sess.ID)
	require.False(t, ok)
}

func TestMemorySessionsExpiry(t *testing.T) {
	sessions := auth.NewMemorySessions(20 * time.Millisecond)
	sess := sessions.Create(auth.Account{Email: gofakeit.Email(), Role: auth.RoleUser})

	time.Sleep(50 * time.Millisecond)
	_, ok := sessions.Get(sess.ID)
	require.False(t, ok)
}
