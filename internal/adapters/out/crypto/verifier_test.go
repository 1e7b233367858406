package crypto

import (
	"strings"
	"testing"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyCredential(t *testing.T) {
	hash, err := HashCredential("4821")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyCredential(hash, "4821")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyCredential(hash, "4822")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashCredential_UniqueSalts(t *testing.T) {
	first, err := HashCredential("4821")
	require.NoError(t, err)
	second, err := HashCredential("4821")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyCredential_MalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		_, err := VerifyCredential(encoded, "4821")
		assert.ErrorIs(t, err, ErrMalformedHash, "hash %q", encoded)
	}
}

func TestArgon2idVerifier_Verify(t *testing.T) {
	supervisor := kernel.NewUUID()
	hash, err := HashCredential("4821")
	require.NoError(t, err)

	verifier := NewArgon2idVerifier(StaticHashLookup{supervisor.String(): hash})

	t.Run("Match", func(t *testing.T) {
		assert.NoError(t, verifier.Verify(t.Context(), supervisor, "4821"))
	})

	t.Run("Mismatch", func(t *testing.T) {
		err := verifier.Verify(t.Context(), supervisor, "0000")
		var denied *errs.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		err := verifier.Verify(t.Context(), kernel.NewUUID(), "4821")
		var denied *errs.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("ZeroUser", func(t *testing.T) {
		assert.Error(t, verifier.Verify(t.Context(), kernel.UUID{}, "4821"))
	})
}
