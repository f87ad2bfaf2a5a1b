package tokenauth

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used by HashPassword. Lower it in
// test suites that hash many passwords.
var DefaultHashCost = bcrypt.DefaultCost

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultHashCost)
}

// HashPasswordCost will generate a password hash with an explicit work factor
func HashPasswordCost(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, ErrHashingFailed.Category, ErrHashingFailed.Message).
			WithTextCode(ErrHashingFailed.TextCode)
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. A wrong password yields ErrMismatchedHashAndPassword;
// a stored hash that bcrypt cannot parse yields a distinct internal error so
// corrupt credentials are visible in logs, though both fail the login.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return errors.Wrap(err, errors.CategoryInternal, "stored password hash is not comparable").
			WithTextCode("BAD_STORED_HASH")
	}
	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
