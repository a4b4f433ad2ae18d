package kanban

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 20
)

var validate = validator.New()

// User is a registered account. The logged-in flag lives only in memory.
type User struct {
	email        string
	passwordHash string
	loggedIn     bool
}

func (u *User) Email() string { return u.email }

func (u *User) IsLoggedIn() bool { return u.loggedIn }

func (u *User) passwordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return newError(ErrValidation, "email address is required")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return newError(ErrValidation, "%q is not a valid email address", email)
	}
	return nil
}

// validatePassword checks the length bounds and that the password mixes an
// upper-case letter, a lower-case letter and a digit.
func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return newError(ErrValidation, "password must be between %d and %d characters long",
			minPasswordLength, maxPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return newError(ErrValidation,
			"password must contain an upper-case letter, a lower-case letter and a digit")
	}
	return nil
}
