package utils

import "golang.org/x/crypto/bcrypt"

// hashCost is the bcrypt work factor applied to stored credentials
const hashCost = 12

// HashPassword derives a salted bcrypt hash for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether a plain password matches the stored hash
func ComparePassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
