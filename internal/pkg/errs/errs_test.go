package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("latitude", errors.New("not a number"))

		assert.Equal(t, "value is invalid: latitude (cause: not a number)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 150, 1, 99)

		assert.Equal(t, "value is invalid: 150 is quantity, min value is 1, max value is 99", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("out of range strips newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("customerId")

		assert.Equal(t, "value is required: customerId", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestVersionConflictError(t *testing.T) {
	err := errs.NewVersionConflictError("order", "42", 3)

	assert.Equal(t, "version conflict: order 42 was modified concurrently (read version 3), retry", err.Error())
	require.ErrorIs(t, err, errs.ErrVersionConflict)
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError(stringer("PREPARING"), stringer("CANCELLED"))

	assert.Equal(t, "PREPARING", err.From)
	assert.Equal(t, "CANCELLED", err.To)
	assert.Equal(t, "invalid status transition: cannot transition from PREPARING to CANCELLED", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestBusinessRuleError(t *testing.T) {
	err := errs.NewBusinessRuleError("restaurant is not accepting orders")

	assert.Equal(t, "business rule violated: restaurant is not accepting orders", err.Error())
	require.ErrorIs(t, err, errs.ErrBusinessRuleViolated)
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{"not found", errs.NewObjectNotFoundError("order", "1"), errs.KindNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NewObjectNotFoundError("order", "1")), errs.KindNotFound},
		{"conflict", errs.NewVersionConflictError("order", "1", 0), errs.KindConflict},
		{"transition", errs.NewInvalidTransitionError(stringer("A"), stringer("B")), errs.KindBadRequest},
		{"business rule", errs.NewBusinessRuleError("closed"), errs.KindBadRequest},
		{"required", errs.NewValueIsRequiredError("x"), errs.KindBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("x", 1, 2, 3), errs.KindBadRequest},
		{"unknown", errors.New("connection reset"), errs.KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.Classify(tc.err))
		})
	}

	assert.True(t, errs.KindConflict.Retryable())
	assert.False(t, errs.KindBadRequest.Retryable())
	assert.Equal(t, "Conflict", errs.KindConflict.String())
}
