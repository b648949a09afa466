package password

import "errors"

// VerificationResult is the three-way outcome of verifying a plaintext
// password against a stored hash.
type VerificationResult int

const (
	// VerificationFailed means the password does not match the hash.
	VerificationFailed VerificationResult = iota

	// VerificationSuccess means the password matches the hash.
	VerificationSuccess

	// VerificationSuccessRehashNeeded means the password matches but the
	// hash was produced with outdated parameters and should be recomputed.
	VerificationSuccessRehashNeeded
)

func (r VerificationResult) String() string {
	switch r {
	case VerificationFailed:
		return "Failed"
	case VerificationSuccess:
		return "Success"
	case VerificationSuccessRehashNeeded:
		return "SuccessRehashNeeded"
	default:
		return "Unknown"
	}
}

// Common errors for password hashing
var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrEmptyHash     = errors.New("hashed password cannot be empty")
)

// Hasher defines the interface for password hashing implementations. The
// cryptography lives behind this interface; callers only interpret the
// three-way verification result.
type Hasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks the provided password against the stored hash
	Verify(hashedPassword, password string) (VerificationResult, error)
}
