package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on success, or an error on mismatch.
	Compare(hashedPassword, password string) error
}

// PasswordHasher defines the interface for hashing plaintext passwords.
type PasswordHasher interface {
	// Hash derives a one-way hash of the plaintext password.
	Hash(password string) (string, error)
}

// BcryptPasswordService implements PasswordVerifier and PasswordHasher
// using bcrypt.
type BcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates a bcrypt-backed password service with the
// given cost. A cost outside bcrypt's supported range falls back to the
// library default.
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

var (
	_ PasswordVerifier = (*BcryptPasswordService)(nil)
	_ PasswordHasher   = (*BcryptPasswordService)(nil)
)

// Hash implements PasswordHasher using bcrypt.
func (s *BcryptPasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare implements PasswordVerifier using bcrypt.
func (s *BcryptPasswordService) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
