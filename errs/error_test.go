package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormatsMessageAndUnwrapsTrailingError(t *testing.T) {
	cause := errors.New("connection reset")
	err := New(KindIo, "read %d bytes", 4, cause)

	assert.Equal(t, KindIo, err.Kind)
	assert.Equal(t, "read 4 bytes", err.Message)
	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewWithoutTrailingError(t *testing.T) {
	err := New(KindDecodeError, "bad frame")
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "decode_error: bad frame", err.Error())
}

func TestKindOfWalksWrapChain(t *testing.T) {
	inner := New(KindNoParent, "no parent for block")
	wrapped := fmt.Errorf("tree add failed: %w", inner)

	assert.Equal(t, KindNoParent, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain error")))
}

func TestIsComparesByKind(t *testing.T) {
	a := New(KindMisbehavingPeer, "peer sent unsolicited block")
	b := New(KindMisbehavingPeer, "different message, same kind")
	c := New(KindDisconnected, "socket closed")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestNilErrorIsSafe(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
	assert.False(t, e.Is(New(KindIo, "x")))
}
