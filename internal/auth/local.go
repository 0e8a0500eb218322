package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strconv"
	"strings"

	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/session"
	"github.com/vrsandeep/nephra-go/internal/store"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrInvalidEmail       = errors.New("Unable to validate email address: invalid format")
	ErrWeakPassword       = errors.New("Password should be at least 6 characters")
)

// UserStore is the account storage used by the Local backend.
type UserStore interface {
	CreateUser(email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserFromSession(token string) (*models.User, error)
	CreateSession(userID int64) (string, error)
	DeleteSession(token string) error
}

// Local is a self-hosted backend: accounts live in the service's own
// database and the device keeps only its session token.
type Local struct {
	emitter

	users UserStore
	kv    KV
}

// NewLocal creates a Local backend for one device.
func NewLocal(users UserStore, kv KV) *Local {
	return &Local{users: users, kv: kv}
}

func identityOf(u *models.User) *models.Identity {
	return &models.Identity{ID: strconv.FormatInt(u.ID, 10), Email: u.Email}
}

// OnAuthStateChange registers fn for change notifications.
func (l *Local) OnAuthStateChange(fn func(session.Event, *models.Identity)) session.Subscription {
	return l.subscribe(fn)
}

// GetUser returns the user of the device's session token. Expired or
// unknown tokens are dropped.
func (l *Local) GetUser(ctx context.Context) (*models.Identity, error) {
	token, ok, err := l.kv.GetItem(SessionKey)
	if err != nil || !ok || token == "" {
		return nil, err
	}
	user, err := l.users.GetUserFromSession(token)
	if err != nil {
		log.Printf("Dropping local session: %v", err)
		return nil, l.kv.RemoveItem(SessionKey)
	}
	return identityOf(user), nil
}

// SignInWithPassword checks the credentials and starts a session.
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) error {
	user, err := l.users.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	token, err := l.users.CreateSession(user.ID)
	if err != nil {
		return err
	}
	if err := l.kv.SetItem(SessionKey, token); err != nil {
		return err
	}
	l.emit(session.EventSignedIn, identityOf(user))
	return nil
}

// SignUp creates an account and signs it in.
func (l *Local) SignUp(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := l.users.CreateUser(email, hash); err != nil {
		return err
	}
	return l.SignInWithPassword(ctx, email, password)
}

// SignOut ends the device's session.
func (l *Local) SignOut(ctx context.Context) error {
	token, ok, err := l.kv.GetItem(SessionKey)
	if err != nil {
		return err
	}
	if ok && token != "" {
		if err := l.users.DeleteSession(token); err != nil {
			return err
		}
	}
	if err := l.kv.RemoveItem(SessionKey); err != nil {
		return err
	}
	l.emit(session.EventSignedOut, nil)
	return nil
}
