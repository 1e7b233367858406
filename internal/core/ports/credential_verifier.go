package ports

import (
	"context"

	"courierpos/internal/core/domain/model/kernel"
)

// CredentialVerifier re-checks a user's credential at decision time. Override
// approval requires fresh proof even inside an authenticated session.
type CredentialVerifier interface {
	// Verify checks the proof against the user's stored credential.
	// Returns a PermissionDenied error on mismatch.
	Verify(ctx context.Context, userID kernel.UUID, proof string) error
}
