package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	result, err := hasher.Verify(hash, "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, VerificationSuccess, result)

	result, err = hasher.Verify(hash, "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, VerificationFailed, result)
}

func TestBcryptHasher_RehashNeededOnLowerCost(t *testing.T) {
	lowCost := NewBcryptHasherWithCost(bcrypt.MinCost)
	hash, err := lowCost.Hash("correct-horse")
	require.NoError(t, err)

	higherCost := NewBcryptHasherWithCost(bcrypt.MinCost + 1)
	result, err := higherCost.Verify(hash, "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, VerificationSuccessRehashNeeded, result)

	// A wrong password never reports rehash-needed.
	result, err = higherCost.Verify(hash, "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, VerificationFailed, result)
}

func TestBcryptHasher_EmptyInputs(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	result, err := hasher.Verify("", "correct-horse")
	assert.ErrorIs(t, err, ErrEmptyHash)
	assert.Equal(t, VerificationFailed, result)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	result, err = hasher.Verify(hash, "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.Equal(t, VerificationFailed, result)
}

func TestBcryptHasher_CostOutOfRangeFallsBack(t *testing.T) {
	hasher := NewBcryptHasherWithCost(99)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
