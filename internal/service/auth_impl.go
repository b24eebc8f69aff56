package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rolloutlog.com/internal/auth"
	"rolloutlog.com/internal/config"
	"rolloutlog.com/internal/domain"
	"rolloutlog.com/internal/model"
	"rolloutlog.com/internal/validate"
)

const passwordPolicyMessage = "Password must be at least 8 characters and include uppercase, lowercase, and a number."

// AuthServiceImpl implements domain.AuthService on top of the user store.
type AuthServiceImpl struct {
	db       *gorm.DB
	cfg      *config.Config
	denylist domain.TokenDenylist
}

func NewAuthService(db *gorm.DB, cfg *config.Config, denylist domain.TokenDenylist) *AuthServiceImpl {
	return &AuthServiceImpl{
		db:       db,
		cfg:      cfg,
		denylist: denylist,
	}
}

// Register creates a user account. The duplicate pre-check is a fast fail;
// the unique index on email_normalized is what actually guarantees
// uniqueness under concurrent submission.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.Registration) (*model.User, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, domain.NewBadRequestError("All fields are required.")
	}

	if !validate.IsValidEmail(email) {
		return nil, domain.NewBadRequestError("Invalid email format.")
	}

	emailNormalized := validate.Normalize(email)

	var existing model.User
	err := s.db.WithContext(ctx).
		Where("email_normalized = ? AND is_delete = ?", emailNormalized, false).
		First(&existing).Error
	if err == nil {
		return nil, domain.NewConflictError("Email already in use.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewInternalError("Registration failed.", err)
	}

	if !validate.IsValidPassword(password) {
		return nil, domain.NewBadRequestError(passwordPolicyMessage)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("Registration failed.", err)
	}

	user := model.User{
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		Password:            string(hashed),
		FirstNameNormalized: validate.Normalize(firstName),
		LastNameNormalized:  validate.Normalize(lastName),
		EmailNormalized:     emailNormalized,
		CommonFields:        model.NewCommonFields(model.SystemActor),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent registration.
			return nil, domain.NewConflictError("Email already in use.")
		}
		return nil, domain.NewInternalError("Registration failed.", err)
	}

	return &user, nil
}

// Login verifies credentials and issues a session token. A missing user and a
// wrong password produce the identical error so the two cannot be told apart.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.NewBadRequestError("Email and password are required.")
	}

	if s.cfg.JWT.Secret == "" {
		return "", nil, domain.NewConfigError("Server configuration error.")
	}

	var user model.User
	err := s.db.WithContext(ctx).
		Where("email_normalized = ? AND is_delete = ?", validate.Normalize(email), false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.NewAuthError("Invalid email or password.")
		}
		return "", nil, domain.NewInternalError("Login failed.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, domain.NewAuthError("Invalid email or password.")
	}

	token, err := auth.Sign([]byte(s.cfg.JWT.Secret), &user)
	if err != nil {
		return "", nil, domain.NewInternalError("Login failed.", err)
	}

	return token, &user, nil
}

// Logout puts the presented token on the denylist for its remaining lifetime.
// Tokens that no longer parse are already unusable and are ignored.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if s.cfg.JWT.Secret == "" {
		return domain.NewConfigError("Server configuration error.")
	}

	claims, err := auth.Parse([]byte(s.cfg.JWT.Secret), token)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return domain.NewInternalError("Logout failed.", err)
	}
	return nil
}

// Authenticate verifies a session token and resolves its user against the
// live store. Fails closed on every path.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.cfg.JWT.Secret == "" {
		return nil, domain.NewConfigError("Server configuration error.")
	}
	if token == "" {
		return nil, domain.NewAuthError("Invalid or expired token")
	}

	claims, err := auth.Parse([]byte(s.cfg.JWT.Secret), token)
	if err != nil {
		return nil, domain.NewAuthError("Invalid or expired token")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, domain.NewInternalError("Internal server error.", err)
	}
	if revoked {
		return nil, domain.NewAuthError("Invalid or expired token")
	}

	var user model.User
	err = s.db.WithContext(ctx).
		Where("email_normalized = ? AND is_delete = ?", validate.Normalize(claims.Email), false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAuthError("Invalid token - user not found")
		}
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	return &user, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_delete = ?", userID, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User not found.")
		}
		return nil, domain.NewInternalError("Internal server error.", err)
	}
	return &user, nil
}

// UpdateProfile changes name and email, re-checking email uniqueness against
// everyone except the caller.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, in domain.ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)

	if firstName == "" || lastName == "" || email == "" {
		return nil, domain.NewBadRequestError("All fields are required.")
	}

	if !validate.IsValidEmail(email) {
		return nil, domain.NewBadRequestError("Invalid email format.")
	}

	emailNormalized := validate.Normalize(email)

	var existing model.User
	err = s.db.WithContext(ctx).
		Where("email_normalized = ? AND id <> ? AND is_delete = ?", emailNormalized, user.ID, false).
		First(&existing).Error
	if err == nil {
		return nil, domain.NewConflictError("Email already in use.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	actor := user.Email

	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	user.FirstNameNormalized = validate.Normalize(firstName)
	user.LastNameNormalized = validate.Normalize(lastName)
	user.EmailNormalized = emailNormalized
	user.Touch(actor)

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewConflictError("Email already in use.")
		}
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	return user, nil
}

// ChangePassword re-hashes after verifying the current password.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return domain.NewBadRequestError("Current and new passwords are required.")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return domain.NewAuthError("Current password is incorrect.")
	}

	if !validate.IsValidPassword(next) {
		return domain.NewBadRequestError(passwordPolicyMessage)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewInternalError("Internal server error.", err)
	}

	user.Password = string(hashed)
	user.Touch(user.Email)

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return domain.NewInternalError("Internal server error.", err)
	}

	return nil
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)
