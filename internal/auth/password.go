// internal/auth/password.go
//
// Password hashing for Chorus accounts.
//
// Context
//   User rows store only a bcrypt hash; the plaintext exists for the span of
//   one create/login request.  Cost stays at bcrypt's default, which the
//   library raises over time.

package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash to store for a plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
