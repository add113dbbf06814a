package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeConfigError, "bad threshold")
	assert.Equal(t, "[CONFIG_ERROR] bad threshold", err.Error())

	wrapped := Wrap(CodeParseError, "row 3", errors.New("strconv failed"))
	assert.Equal(t, "[PARSE_ERROR] row 3: strconv failed", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	wrapped := Wrap(CodeMiningError, "stage failed", inner)
	assert.Equal(t, inner, errors.Unwrap(wrapped))
}

func TestAppError_Is(t *testing.T) {
	err := Wrap(CodeConfigError, "neighbor_distance must be positive", nil)
	assert.True(t, errors.Is(err, ErrConfigError))
	assert.False(t, errors.Is(err, ErrParseError))

	assert.True(t, IsConfigError(err))
	assert.False(t, IsParseError(err))

	// Wrapping through fmt.Errorf keeps the chain intact.
	chained := fmt.Errorf("load: %w", err)
	assert.True(t, IsConfigError(chained))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeStorageError, GetErrorCode(Wrap(CodeStorageError, "upload", nil)))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "upload", GetErrorMessage(Wrap(CodeStorageError, "upload", nil)))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
