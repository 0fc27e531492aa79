package services

import (
	"context"
	"errors"
	"fmt"

	"threadboard/internal/models"
	"threadboard/internal/utils"
	"threadboard/internal/validate"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SQLSTATEs Postgres reports for constraint conflicts.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// SignupInput is the signup request body. Nil fields were absent from the request.
type SignupInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Credentials is the login request body: a username or an email plus a password.
type Credentials struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// IdentityService owns user records.
type IdentityService struct {
	db         *gorm.DB
	log        *logrus.Logger
	bcryptCost int
}

func NewIdentityService(gdb *gorm.DB, log *logrus.Logger, bcryptCost int) *IdentityService {
	return &IdentityService{db: gdb, log: log, bcryptCost: bcryptCost}
}

// Signup validates in, hashes the password and stores a new user.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	var errs validate.Errors
	checkRequired(&errs, "username", in.Username, validate.Username)
	checkRequired(&errs, "email", in.Email, validate.Email)
	checkRequired(&errs, "password", in.Password, validate.Password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(*in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.Create(ctx, *in.Username, *in.Email, hash)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User signed up")
	return user, nil
}

// Create inserts a user unless the username or email is taken.
func (s *IdentityService) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, Email: email, Password: passwordHash}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateIdentity
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByUsernameOrEmail looks a user up by username when one is given, else by email.
func (s *IdentityService) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := s.db.WithContext(ctx)
	switch {
	case username != "":
		query = query.Where("username = ?", username)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *IdentityService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if !storableID(id) {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks creds and returns the matching user.
// Failures wrap ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	var errs validate.Errors
	username, email := deref(creds.Username), deref(creds.Email)
	switch {
	case username == "" && email == "":
		errs.Check(&validate.Failure{Field: "_schema", Rule: validate.LoginIdentifier})
	case username != "":
		errs.Check(validate.Username(username))
	default:
		errs.Check(validate.Email(email))
	}
	checkRequired(&errs, "password", creds.Password, validate.Password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.FindByUsernameOrEmail(ctx, username, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrNoSuchUser
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(*creds.Password, user.Password) {
		s.log.WithField("user_id", user.ID).Warn("Login with incorrect password")
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

func checkRequired(errs *validate.Errors, field string, value *string, rule func(string) error) {
	if value == nil {
		errs.Missing(field)
		return
	}
	errs.Check(rule(*value))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
