package calcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(CodeSpanExceeded, "no joist spans 30 ft")

	assert.Equal(t, CodeSpanExceeded, err.Code)
	assert.Equal(t, "[SPAN_EXCEEDED] no joist spans 30 ft", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("species missing")
	err := Wrap(CodeSpeciesUnknown, "beam table", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "species missing")
}

func TestInvalidJoinsFieldMessages(t *testing.T) {
	err := Invalid([]FieldError{
		{Field: "width_ft", Code: FieldOutOfRange, Message: "must be greater than 0"},
		{Field: "decking_type", Code: FieldMissing, Message: "is required"},
	})

	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "width_ft: must be greater than 0; decking_type: is required", err.Message)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("engine: %w", New(CodeSpeciesUnknown, "x"))

	assert.Equal(t, CodeSpeciesUnknown, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeSpeciesUnknown))
	assert.False(t, Is(wrapped, CodeSpanExceeded))
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))
	assert.False(t, Is(nil, CodeSpanExceeded))
}
