package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	authModel "volunteerhub_backend/internals/features/users/auth/model"
	authRepo "volunteerhub_backend/internals/features/users/auth/repository"
	"volunteerhub_backend/internals/helpers/apperr"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy burns one bcrypt comparison so unknown emails take as long as wrong passwords.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

type OrganizerInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Organizer   OrganizerInfo `json:"organizer"`
}

type AuthService struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{db: db, secret: secret, ttl: ttl, now: time.Now}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}

// Login checks the credentials and issues an organizer access token.
// Unknown email and wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	o, err := authRepo.FindOrganizerByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		compareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Storage(err, "find organizer")
	}
	if bcrypt.CompareHashAndPassword([]byte(o.OrganizerPasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	actor := helperAuth.Actor{ID: o.OrganizerID, Email: o.OrganizerEmail, Role: constants.RoleOrganizer}
	tok, exp, err := helperAuth.IssueToken(s.secret, actor, s.ttl, s.now())
	if err != nil {
		return nil, err
	}

	log.WithField("organizer_id", o.OrganizerID).Info("organizer logged in")
	return &LoginResult{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		Organizer: OrganizerInfo{
			ID:    o.OrganizerID.String(),
			Email: o.OrganizerEmail,
			Name:  o.OrganizerName,
		},
	}, nil
}

// SeedOrganizer creates the configured organizer account, or refreshes its
// password when it already exists. Empty email or password skips seeding.
func (s *AuthService) SeedOrganizer(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Info("organizer seed skipped (ORGANIZER_EMAIL/ORGANIZER_PASSWORD not set)")
		return nil
	}

	existing, err := authRepo.FindOrganizerByEmail(ctx, s.db, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := HashPassword(password)
		if err != nil {
			return err
		}
		o := &authModel.OrganizerModel{OrganizerEmail: email, OrganizerName: name, OrganizerPasswordHash: hash}
		if err := authRepo.CreateOrganizer(ctx, s.db, o); err != nil {
			return errors.Wrap(err, "seed organizer")
		}
		log.WithField("email", email).Info("organizer seeded")
		return nil
	case err != nil:
		return errors.Wrap(err, "find organizer")
	}

	if bcrypt.CompareHashAndPassword([]byte(existing.OrganizerPasswordHash), []byte(password)) == nil {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := authRepo.UpdateOrganizerPassword(ctx, s.db, existing, hash); err != nil {
		return errors.Wrap(err, "update organizer password")
	}
	log.WithField("email", email).Info("organizer password refreshed")
	return nil
}
