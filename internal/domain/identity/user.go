package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

// DefaultMinPasswordLength is the shortest password accepted at signup, in characters
const DefaultMinPasswordLength = 6

// maxPasswordBytes is the bcrypt input limit
const maxPasswordBytes = 72

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Account errors. Messages are shown inline on the login and signup forms.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid login credentials")
	ErrEmailNotConfirmed  = shared.NewDomainError("EMAIL_NOT_CONFIRMED", "Email not confirmed")
	ErrUserAlreadyExists  = shared.NewDomainError("USER_ALREADY_EXISTS", "User already registered")
	ErrPasswordMismatch   = shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	ErrInvalidEmail       = shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
)

// User is a storefront account. It authenticates with email and password.
type User struct {
	shared.BaseEntity
	Email            string
	PasswordHash     string
	EmailConfirmedAt *time.Time
	LastSignInAt     *time.Time
}

// NewUser creates an unconfirmed user after validating the email and password
func NewUser(email, password string, minPasswordLength int) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePasswordLength(password, minPasswordLength); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ConfirmEmail marks the email as confirmed. Confirming twice keeps the first timestamp.
func (u *User) ConfirmEmail() {
	if u.EmailConfirmedAt != nil {
		return
	}
	now := time.Now()
	u.EmailConfirmedAt = &now
	u.Touch()
}

// IsEmailConfirmed reports whether the user has verified their email
func (u *User) IsEmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// RecordSignIn stamps a successful sign-in
func (u *User) RecordSignIn() {
	now := time.Now()
	u.LastSignInAt = &now
	u.UpdatedAt = now
}

// MemberSince returns the year the account was created
func (u *User) MemberSince() int {
	return u.CreatedAt.Year()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignupPasswords checks the confirmation before the length, matching
// the order in which the signup form reports problems.
func ValidateSignupPasswords(password, confirmPassword string, minLength int) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	return ValidatePasswordLength(password, minLength)
}

// ValidatePasswordLength enforces the minimum length in characters and the bcrypt byte limit
func ValidatePasswordLength(password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return shared.NewDomainError("WEAK_PASSWORD",
			fmt.Sprintf("Password must be at least %d characters long", minLength))
	}
	if len(password) > maxPasswordBytes {
		return shared.NewDomainError("WEAK_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > 200 {
		return ErrInvalidEmail
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
