package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealAndReveal(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("카카오뱅크 3333-01-1234567")
	require.NoError(t, err)
	assert.False(t, sealed.IsZero())

	plain, err := c.Reveal(sealed)
	require.NoError(t, err)
	assert.Equal(t, "카카오뱅크 3333-01-1234567", plain)
}

func TestZeroFieldRevealsEmpty(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	plain, err := c.Reveal(EncryptedField{})
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestSealEmptyYieldsZero(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("")
	require.NoError(t, err)
	assert.True(t, sealed.IsZero())
}

func TestRevealWithWrongKeyFails(t *testing.T) {
	c1, err := NewCipher("secret-one")
	require.NoError(t, err)
	c2, err := NewCipher("secret-two")
	require.NoError(t, err)

	sealed, err := c1.Seal("신한은행 110-123-456789")
	require.NoError(t, err)

	_, err = c2.Reveal(FromSealed(sealed.Sealed()))
	assert.Error(t, err)
}

func TestNewCipherRejectsEmptySecret(t *testing.T) {
	_, err := NewCipher("")
	assert.Error(t, err)
}
