package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/users"

	"github.com/golang-jwt/jwt/v5"
)

const ScopeConfirmation = "confirmation"

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UserProvider interface {
	Register(ctx context.Context, username, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Activate(ctx context.Context, id int64) error
}

type TokenStorage interface {
	Insert(ctx context.Context, hash []byte, userID int64, expiry time.Time, scope string) error
	Exists(ctx context.Context, hash []byte, userID int64, scope string, now time.Time) (bool, error)
	DeleteAllForUser(ctx context.Context, scope string, userID int64) error
}

type Options struct {
	Secret         string
	CodeTTL        time.Duration
	AccessTokenTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type AuthService struct {
	log          *slog.Logger
	users        UserProvider
	tokens       TokenStorage
	Mailer       MailProvider
	taskExecutor TaskExecutor
	secret       []byte
	codeTTL      time.Duration
	accessTTL    time.Duration
	now          func() time.Time
}

func New(
	log *slog.Logger,
	users UserProvider,
	tokens TokenStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	opts Options,
) *AuthService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthService{
		log:          log,
		users:        users,
		tokens:       tokens,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       []byte(opts.Secret),
		codeTTL:      opts.CodeTTL,
		accessTTL:    opts.AccessTokenTTL,
		now:          opts.Now,
	}
}

type confirmationEmailData struct {
	username string
	code     string
	expiry   time.Time
}

func (a *AuthService) sendConfirmationEmail(email string, data confirmationEmailData) {
	a.log.Info("sending confirmation email")
	err := a.Mailer.Send(
		email,
		"confirmation_code.html",
		map[string]any{
			"username":         data.username,
			"confirmationCode": data.code,
			"expiry":           data.expiry.Format(time.RFC1123),
		})
	if err != nil {
		a.log.Error("Error sending confirmation email", "errMsg", err.Error())
	}
}

// Signup registers a new unconfirmed user and mails a confirmation code.
// When username and email already belong to the same user, a fresh code
// is sent to that user instead. A username or email used by someone else
// yields ErrCredentialsMismatch.
func (a *AuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username, "email", email)
	byUsername, err := a.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}
	byEmail, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}
	var user *models.User
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		log.Info("user exists, resending confirmation code")
		user = byUsername
	case byUsername != nil || byEmail != nil:
		log.Info("credentials belong to another account")
		return nil, ErrCredentialsMismatch
	default:
		user, err = a.users.Register(ctx, username, email)
		if err != nil {
			if errors.Is(err, users.ErrUsernameTaken) || errors.Is(err, users.ErrEmailTaken) {
				return nil, ErrCredentialsMismatch
			}
			return nil, err
		}
	}
	code, expiry, err := a.newConfirmationCode(ctx, user.ID)
	if err != nil {
		log.Error("Error issuing confirmation code", "errMsg", err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendConfirmationEmail(user.Email, confirmationEmailData{
			username: user.Username,
			code:     code,
			expiry:   expiry,
		})
	})
	return user, nil
}

func (a *AuthService) newConfirmationCode(ctx context.Context, userID int64) (string, time.Time, error) {
	code, hash, err := generateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	expiry := a.now().Add(a.codeTTL)
	if err := a.tokens.Insert(ctx, hash, userID, expiry, ScopeConfirmation); err != nil {
		return "", time.Time{}, err
	}
	return code, expiry, nil
}

func generateCode() (code string, hash []byte, err error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", nil, err
	}
	code = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	return code, hashCode(code), nil
}

func hashCode(code string) []byte {
	sum := sha256.Sum256([]byte(code))
	return sum[:]
}

// ValidateConfirmationCode reports whether code is a live confirmation code
// of the user.
func (a *AuthService) ValidateConfirmationCode(ctx context.Context, userID int64, code string) (bool, error) {
	return a.tokens.Exists(ctx, hashCode(code), userID, ScopeConfirmation, a.now())
}

// Token exchanges a confirmation code for an access token. The user is
// activated and its outstanding codes are revoked.
func (a *AuthService) Token(ctx context.Context, username, code string) (string, error) {
	const op = "auth.AuthService.Token"
	log := a.log.With("op", op, "username", username)
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		return "", err
	}
	valid, err := a.ValidateConfirmationCode(ctx, user.ID, code)
	if err != nil {
		log.Error("Error validating confirmation code", "errMsg", err.Error())
		return "", err
	}
	if !valid {
		log.Info("invalid confirmation code")
		return "", ErrInvalidCode
	}
	if !user.IsActive {
		if err := a.users.Activate(ctx, user.ID); err != nil {
			return "", err
		}
	}
	if err := a.tokens.DeleteAllForUser(ctx, ScopeConfirmation, user.ID); err != nil {
		log.Error("Error revoking confirmation codes", "errMsg", err.Error())
		return "", err
	}
	return a.NewAccessToken(user.ID)
}

func (a *AuthService) NewAccessToken(userID int64) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(a.accessTTL).Unix(),
	})
	return token.SignedString(a.secret)
}

// ParseAccessToken returns the user id carried by a valid access token.
func (a *AuthService) ParseAccessToken(tokenString string) (int64, error) {
	parsedToken, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(userID), nil
}

// Authenticate resolves an access token to its user.
func (a *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)
	userID, err := a.ParseAccessToken(tokenString)
	if err != nil {
		log.Debug("rejected token", "errMsg", err.Error())
		return nil, err
	}
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			log.Info("token owner not found", "userID", userID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
