package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command not constructed")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type rating struct {
		stars int
		guard guard.ConstructorGuard
	}
	errRatingNotConstructed := errors.New("rating must be created via newRating")

	newRating := func(stars int) (rating, error) {
		if stars < 1 || stars > 5 {
			return rating{}, errors.New("stars out of range")
		}
		return rating{stars: stars, guard: guard.NewConstructorGuard()}, nil
	}

	valid, err := newRating(4)
	require.NoError(t, err)
	require.NoError(t, valid.guard.Validate(errRatingNotConstructed))

	_, err = newRating(9)
	require.Error(t, err)

	var literal rating
	require.ErrorIs(t, literal.guard.Validate(errRatingNotConstructed), errRatingNotConstructed)
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	done := make(chan error, 50)

	for range 50 {
		go func() {
			done <- g.Validate(nil)
		}()
	}

	for range 50 {
		require.NoError(t, <-done)
	}
}
