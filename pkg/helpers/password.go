package helpers

import "golang.org/x/crypto/bcrypt"

// bcrypt truncates silently past this length in some implementations;
// rejecting up front keeps the stored hash and the login check aligned.
const maxPasswordBytes = 72

// HashPassword bcrypt-hashes a credential at the default cost.
func HashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", bcrypt.ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
// All failure modes (mismatch, malformed hash) read as a non-match.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
