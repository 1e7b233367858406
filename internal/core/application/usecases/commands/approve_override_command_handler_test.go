package commands_test

import (
	"testing"
	"time"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApproveOverrideCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	supervisor := supervisorActor(t)
	pending := pendingOverride(t, override.ActionDiscount, kernel.NewUUID(), nil)
	cmd, err := commands.NewApproveOverrideCommand(pending.ID(), supervisor,
		"hunter2", `{"percent":10}`)
	require.NoError(t, err)

	verifier := new(MockCredentialVerifier)
	verifier.On("Verify", ctx, supervisor.ID(), "hunter2").Return(nil).Once()

	overrides := new(MockOverrideRepository)
	trail := new(MockAuditRepository)
	uow := new(MockOverrideUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("Get", ctx, pending.ID()).Return(pending, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("TransitionFromPending", mock.Anything, pending).Return(nil).Once(),
		uow.On("AuditRepository").Return(trail).Once(),
		trail.On("Add", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOverrideUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApproveOverrideCommandHandler(factory, verifier)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, override.Approved, pending.Status())
	require.NotNil(t, pending.ApprovedBy())
	assert.True(t, pending.ApprovedBy().IsEqual(supervisor.ID()))
	verifier.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestApproveOverrideCommandHandler_Handle_NonElevatedDenied(t *testing.T) {
	ctx := t.Context()
	pending := pendingOverride(t, override.ActionDiscount, kernel.NewUUID(), nil)
	cmd, err := commands.NewApproveOverrideCommand(pending.ID(), operatorActor(t),
		"hunter2", "")
	require.NoError(t, err)

	verifier := new(MockCredentialVerifier)
	factory := new(MockOverrideUoWFactory)

	h := commands.NewApproveOverrideCommandHandler(factory, verifier)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	factory.AssertNotCalled(t, "Create")
}

func TestApproveOverrideCommandHandler_Handle_BadCredential(t *testing.T) {
	ctx := t.Context()
	supervisor := supervisorActor(t)
	pending := pendingOverride(t, override.ActionDiscount, kernel.NewUUID(), nil)
	cmd, err := commands.NewApproveOverrideCommand(pending.ID(), supervisor, "wrong", "")
	require.NoError(t, err)

	verifier := new(MockCredentialVerifier)
	verifier.On("Verify", ctx, supervisor.ID(), "wrong").
		Return(errs.NewPermissionDeniedError("credential mismatch")).Once()

	factory := new(MockOverrideUoWFactory)

	h := commands.NewApproveOverrideCommandHandler(factory, verifier)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestApproveOverrideCommandHandler_Handle_ExpiredIsLazilyExpired(t *testing.T) {
	ctx := t.Context()
	supervisor := supervisorActor(t)
	expired, err := override.NewOverride(kernel.NewUUID(), override.ActionRefund,
		kernel.NewUUID(), "wrong charge", nil, "",
		time.Now().UTC().Add(-time.Hour), 15*time.Minute)
	require.NoError(t, err)

	cmd, err := commands.NewApproveOverrideCommand(expired.ID(), supervisor, "hunter2", "")
	require.NoError(t, err)

	verifier := new(MockCredentialVerifier)
	verifier.On("Verify", ctx, supervisor.ID(), "hunter2").Return(nil).Once()

	overrides := new(MockOverrideRepository)
	trail := new(MockAuditRepository)
	uow := new(MockOverrideUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("Get", ctx, expired.ID()).Return(expired, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("TransitionFromPending", mock.Anything, expired).Return(nil).Once(),
		uow.On("AuditRepository").Return(trail).Once(),
		trail.On("Add", mock.Anything, mock.AnythingOfType("audit.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOverrideUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApproveOverrideCommandHandler(factory, verifier)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, override.Expired, expired.Status())
	uow.AssertExpectations(t)
}

func TestApproveOverrideCommandHandler_Handle_LostCASRace(t *testing.T) {
	ctx := t.Context()
	supervisor := supervisorActor(t)
	pending := pendingOverride(t, override.ActionDiscount, kernel.NewUUID(), nil)
	cmd, err := commands.NewApproveOverrideCommand(pending.ID(), supervisor, "hunter2", "")
	require.NoError(t, err)

	verifier := new(MockCredentialVerifier)
	verifier.On("Verify", ctx, supervisor.ID(), "hunter2").Return(nil).Once()

	overrides := new(MockOverrideRepository)
	uow := new(MockOverrideUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("Get", ctx, pending.ID()).Return(pending, nil).Once(),
		uow.On("OverrideRepository").Return(overrides).Once(),
		overrides.On("TransitionFromPending", mock.Anything, pending).
			Return(errs.NewConflictError("override")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOverrideUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApproveOverrideCommandHandler(factory, verifier)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
}
