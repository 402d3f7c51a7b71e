// Package security implements one-way password hashing and verification
// on top of bcrypt.
package security

import "golang.org/x/crypto/bcrypt"

// MinCost is the lowest work factor accepted; anything below silently
// upgrades to the bcrypt default.
const MinCost = bcrypt.MinCost

// HashPassword hashes a plaintext password with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// Malformed hashes yield false, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
