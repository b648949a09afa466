package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements Hasher using bcrypt. Hashes produced with a cost
// below the configured one verify as SuccessRehashNeeded so callers can
// upgrade them transparently.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost creates a bcrypt hasher with an explicit cost.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements Hasher.Hash
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// Verify implements Hasher.Verify
func (h *BcryptHasher) Verify(hashedPassword, password string) (VerificationResult, error) {
	if password == "" {
		return VerificationFailed, ErrEmptyPassword
	}
	if hashedPassword == "" {
		return VerificationFailed, ErrEmptyHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return VerificationFailed, nil // Password doesn't match, but not an error
		}
		return VerificationFailed, err // Some other error occurred
	}

	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err == nil && cost < h.cost {
		return VerificationSuccessRehashNeeded, nil
	}

	return VerificationSuccess, nil
}
