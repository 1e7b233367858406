package crypto

import (
	"context"
	"fmt"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/pkg/errs"
)

// HashLookup resolves the stored credential hash for a user. Returns an
// ObjectNotFound error when the user has no approval credential.
type HashLookup interface {
	GetCredentialHash(ctx context.Context, userID kernel.UUID) (string, error)
}

// Argon2idVerifier implements CredentialVerifier against argon2id hashes.
type Argon2idVerifier struct {
	lookup HashLookup
}

// NewArgon2idVerifier creates a verifier over the given credential store.
func NewArgon2idVerifier(lookup HashLookup) *Argon2idVerifier {
	return &Argon2idVerifier{lookup: lookup}
}

// Verify checks the presented proof against the user's stored hash. Every
// failure mode surfaces as PermissionDenied so callers cannot distinguish an
// unknown user from a wrong credential.
func (v *Argon2idVerifier) Verify(ctx context.Context, userID kernel.UUID, proof string) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	hash, err := v.lookup.GetCredentialHash(ctx, userID)
	if err != nil {
		return errs.NewPermissionDeniedErrorWithCause("credential verification", err)
	}

	ok, err := VerifyCredential(hash, proof)
	if err != nil {
		return errs.NewPermissionDeniedErrorWithCause("credential verification", err)
	}
	if !ok {
		return errs.NewPermissionDeniedErrorWithCause("credential verification",
			fmt.Errorf("credential mismatch for user %s", userID))
	}

	return nil
}

// StaticHashLookup is an in-memory credential store keyed by user ID, loaded
// from configuration at startup.
type StaticHashLookup map[string]string

// GetCredentialHash returns the configured hash for a user.
func (s StaticHashLookup) GetCredentialHash(_ context.Context, userID kernel.UUID) (string, error) {
	hash, ok := s[userID.String()]
	if !ok {
		return "", errs.NewObjectNotFoundError("approval credential", userID.String())
	}
	return hash, nil
}
