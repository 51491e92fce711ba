package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Learner
var (
	ErrEmptyLearnerID      = errors.New("learner ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// emailRegex is a deliberately simple format check. Proper verification
// happens out of band; this only rejects obviously malformed addresses.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Learner represents a registered user of the learning application.
// Each learner owns their own review schedule for every learning item
// they have been exposed to.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, held only between registration and hashing
	HashedPassword string    `json:"-"` // Never exposed in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with the given email and plaintext password.
// The caller is responsible for hashing the password before storing the learner.
// Returns an error if validation fails.
func NewLearner(email, password string) (*Learner, error) {
	now := time.Now().UTC()
	learner := &Learner{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
// Returns an error if any field fails validation.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLearnerID
	}

	if l.Email == "" {
		return ErrEmptyEmail
	}

	if !emailRegex.MatchString(l.Email) {
		return ErrInvalidEmail
	}

	if l.Password != "" {
		// bcrypt rejects inputs longer than 72 bytes
		if len(l.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(l.Password) > 72 {
			return ErrPasswordTooLong
		}
		return nil
	}

	// Learners loaded from the store carry only the hash.
	if l.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
