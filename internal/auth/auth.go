package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blog/internal/models"
	"blog/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminNotConfigured = errors.New("admin account has no password set")
	ErrDuplicateEmail     = errors.New("email already taken")
	ErrMissingFields      = errors.New("name, email and password are required")
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account is the identity established by a successful login.
type Account struct {
	Email string
	Name  string
	Role  string
}

// ----------------------------
// Context helpers (for middleware and handlers)
// ----------------------------

type ctxKeySession struct{}

func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, sess)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	v := ctx.Value(ctxKeySession{})
	if v == nil {
		return Session{}, false
	}
	sess, _ := v.(Session)
	return sess, sess.ID != ""
}

// ----------------------------
// Login
// ----------------------------

// Login checks the admin list first, then the user list. Emails are matched
// exactly, never folded.
func Login(st *store.Store, email, password string) (Account, error) {
	admins, err := st.Admins()
	if err != nil {
		return Account{}, err
	}
	for _, a := range admins {
		if a.Email != email {
			continue
		}
		if a.PasswordHash == "" {
			log.Warn().Str("email", email).Msg("login rejected: admin has no password hash")
			return Account{}, ErrAdminNotConfigured
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			return Account{}, ErrInvalidCredentials
		}
		return Account{Email: a.Email, Name: a.Name, Role: RoleAdmin}, nil
	}

	users, err := st.Users()
	if err != nil {
		return Account{}, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return Account{}, ErrInvalidCredentials
		}
		return Account{Email: u.Email, Name: u.Name, Role: RoleUser}, nil
	}

	log.Debug().Str("email", email).Msg("login failed: no such account")
	return Account{}, ErrInvalidCredentials
}

// ----------------------------
// Signup
// ----------------------------

// Signup appends a new user record. Email uniqueness is enforced across the
// combined admin+user namespace.
func Signup(st *store.Store, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}

	admins, err := st.Admins()
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.Email == email {
			return ErrDuplicateEmail
		}
	}

	users, err := st.Users()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == email {
			return ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users = append(users, models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	})
	if err := st.PutUsers(users); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("user signed up")
	return nil
}

// ----------------------------
// Admin provisioning
// ----------------------------

// EnsureAdmin appends an admin record at startup when one is configured and
// not already present. An empty password leaves the hash empty, so login for
// that admin reports ErrAdminNotConfigured until the list is fixed by hand.
func EnsureAdmin(st *store.Store, email, password, name string) error {
	if email == "" {
		return nil
	}
	admins, err := st.Admins()
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.Email == email {
			return nil
		}
	}

	var hash string
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(b)
	}

	admins = append(admins, models.Admin{Email: email, PasswordHash: hash, Name: name})
	if err := st.PutAdmins(admins); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("provisioned admin account")
	return nil
}
