package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "expensely/internal/errors"
	"expensely/internal/logger"
	"expensely/internal/models"
)

// resetCodeTTL is how long an emailed reset code stays valid.
const resetCodeTTL = 10 * time.Minute

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	sender CodeSender
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, sender CodeSender) UserServicer {
	return &userService{db: db, sender: sender}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if len(firstName) < 2 || len(lastName) < 2 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "first and last name must be at least 2 characters")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// SendResetCode generates a one-time numeric code, stores it with an
// expiry, and emails it to the user. If delivery fails the stored code
// is cleared so a stale code can never be verified later.
func (s *userService) SendResetCode(email string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expires := time.Now().Add(resetCodeTTL)
	user.ResetCode = code
	user.ResetCodeExpires = &expires
	user.ResetCodeVerified = false
	if err := s.saveResetState(user); err != nil {
		return err
	}

	if err := s.sender.SendResetCode(user.Email, code); err != nil {
		logger.Get().Errorw("failed to send reset code", "error", err, "email", user.Email)
		s.clearResetState(user)
		return apperrors.Wrap(apperrors.ErrCodeSendFailed, err)
	}
	return nil
}

// VerifyResetCode checks the submitted code against the stored one and
// marks it verified. Expired codes are cleared and rejected.
func (s *userService) VerifyResetCode(email, code string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}

	if user.ResetCode == "" || code != user.ResetCode {
		return apperrors.ErrInvalidResetCode
	}

	if user.ResetCodeExpires == nil || user.ResetCodeExpires.Before(time.Now()) {
		s.clearResetState(user)
		return apperrors.ErrResetCodeExpired
	}

	user.ResetCodeVerified = true
	return s.saveResetState(user)
}

// ResetPassword sets a new password for a user whose reset code has
// been verified, then clears the reset state.
func (s *userService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters long")
	}

	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}

	if !user.ResetCodeVerified {
		return apperrors.ErrResetCodeUnverified
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"password":            string(hashedPassword),
		"reset_code":          "",
		"reset_code_expires":  nil,
		"reset_code_verified": false,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *userService) saveResetState(user *models.User) error {
	updates := map[string]interface{}{
		"reset_code":          user.ResetCode,
		"reset_code_expires":  user.ResetCodeExpires,
		"reset_code_verified": user.ResetCodeVerified,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *userService) clearResetState(user *models.User) {
	user.ResetCode = ""
	user.ResetCodeExpires = nil
	user.ResetCodeVerified = false
	if err := s.saveResetState(user); err != nil {
		logger.Get().Errorw("failed to clear reset state", "error", err, "user_id", user.ID)
	}
}

// generateResetCode returns a random 4-digit code as a string.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
