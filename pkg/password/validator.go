package password

// Validator interprets hash verification for the login flow. It owns no
// cryptography; the hasher does the comparison and the validator passes the
// three-way outcome through.
type Validator struct {
	hasher Hasher
}

// NewValidator creates a credential validator on top of the given hasher.
func NewValidator(hasher Hasher) *Validator {
	return &Validator{hasher: hasher}
}

// Verify checks a plaintext password against a stored hash.
func (v *Validator) Verify(storedHash, plainPassword string) (VerificationResult, error) {
	return v.hasher.Verify(storedHash, plainPassword)
}

// Hash hashes a plaintext password with the underlying hasher.
func (v *Validator) Hash(plainPassword string) (string, error) {
	return v.hasher.Hash(plainPassword)
}
