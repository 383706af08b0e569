package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	base := stderrors.New("boom")

	assert.Nil(t, NewError(nil, ConfigFailureExitCode))
	assert.Equal(t, ExitCode(0), ExitCodeOf(nil))
	assert.Equal(t, GenericFailureExitCode, ExitCodeOf(base))

	err := NewError(base, ConfigFailureExitCode)
	assert.Equal(t, ConfigFailureExitCode, err.GetExitCode())
	assert.Equal(t, ConfigFailureExitCode, ExitCodeOf(err))
	assert.True(t, stderrors.Is(err, base))
	assert.Equal(t, "boom", err.Error())

	var nilErr *ExitCodeError
	assert.Equal(t, ExitCode(0), nilErr.GetExitCode())
}
