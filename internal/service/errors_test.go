package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkoziol/bookshare/internal/repository"
)

func TestFailureTextWithAndWithoutCause(t *testing.T) {
	assert.Equal(t, "boom", (&GetFailure{Msg: "boom"}).Error())
	assert.Equal(t, "boom: not found",
		(&GetFailure{Msg: "boom", Err: repository.ErrNotFound}).Error())
}

func TestFailuresUnwrapToCause(t *testing.T) {
	cause := errors.New("disk on fire")

	for _, err := range []error{
		&GetFailure{Msg: "get", Err: cause},
		&AddFailure{Msg: "add", Err: cause},
		&ModifyFailure{Msg: "modify", Err: cause},
		&DeleteFailure{Msg: "delete", Err: cause},
	} {
		assert.ErrorIs(t, err, cause)
	}
}

func TestFailureKindsAreDistinct(t *testing.T) {
	var wrapped error = &AddFailure{Msg: "add", Err: repository.ErrDuplicate}

	var add *AddFailure
	assert.True(t, errors.As(wrapped, &add))

	var get *GetFailure
	assert.False(t, errors.As(wrapped, &get))

	assert.ErrorIs(t, wrapped, repository.ErrDuplicate)
}
