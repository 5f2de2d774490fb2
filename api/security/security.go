package security

import "golang.org/x/crypto/bcrypt"

// Hash produces a bcrypt hash of the given plaintext password.
func Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword compares a stored bcrypt hash with a candidate password.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
