package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"ordertracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidCredentialError(t *testing.T) {
	t.Run("message does not leak the cause", func(t *testing.T) {
		err := errs.NewInvalidCredentialErrorWithCause(errors.New("operator 7 is inactive"))

		assert.Equal(t, "invalid credential", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidCredential)
	})
}

func TestPermissionDeniedError(t *testing.T) {
	err := errs.NewPermissionDeniedError("DISPATCH", "may only move PREPARED to DELIVERED")

	assert.Equal(t, "DISPATCH", err.Role)
	assert.Equal(t, "permission denied: role DISPATCH: may only move PREPARED to DELIVERED", err.Error())
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestRuleViolationError(t *testing.T) {
	t.Run("lists missing states", func(t *testing.T) {
		err := errs.NewRuleViolationError("PREPARED", []string{"PENDING", "IN_PREPARATION"})

		assert.Equal(t, []string{"PENDING", "IN_PREPARATION"}, err.Missing)
		assert.Equal(t, "rule violation: PREPARED requires prior states: PENDING, IN_PREPARATION", err.Error())
		require.ErrorIs(t, err, errs.ErrRuleViolation)
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewRuleViolationErrorWithCause("PENDING", errors.New("rule would create a cycle"))

		assert.Equal(t, "rule violation: PENDING (cause: rule would create a cycle)", err.Error())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewConflictError("order", "00287573")
		assert.Equal(t, "conflict: order 00287573", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewConflictErrorWithCause("state", 3, errors.New("order is in PREPARED"))
		assert.Equal(t, "conflict: state 3 (cause: order is in PREPARED)", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestExternalServiceError(t *testing.T) {
	t.Run("permanent", func(t *testing.T) {
		err := errs.NewExternalServiceError("erp", errors.New("status 500"))

		assert.False(t, err.Transient)
		assert.Equal(t, "external service error: erp (cause: status 500)", err.Error())
		require.ErrorIs(t, err, errs.ErrExternalService)
	})

	t.Run("transient is detectable through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("sync run: %w", errs.NewTransientExternalServiceError("erp", errors.New("timeout")))

		var target *errs.ExternalServiceError
		require.ErrorAs(t, wrapped, &target)
		assert.True(t, target.Transient)
	})
}

func TestStorageError(t *testing.T) {
	err := errs.NewStorageError("load carriers", errors.New("connection reset"))

	assert.Equal(t, "load carriers", err.Operation)
	assert.Equal(t, "storage error: load carriers (cause: connection reset)", err.Error())
	require.ErrorIs(t, err, errs.ErrStorage)
}
