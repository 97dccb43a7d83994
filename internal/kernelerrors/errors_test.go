package kernelerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatsWithCode(t *testing.T) {
	e := New(Filesystem, CodeNotFound, "file not found")
	assert.Equal(t, "[FS_NOT_FOUND] file not found", e.Error())
}

func TestErrorFormatsWithoutCode(t *testing.T) {
	e := &Error{Category: Internal, Message: "boom"}
	assert.Equal(t, "[INTERNAL] boom", e.Error())
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(Filesystem, CodeTooLarge, "write failed", cause)
	require.ErrorIs(t, e, cause)
}

func TestWithPathDoesNotMutateOriginal(t *testing.T) {
	base := New(Filesystem, CodeNotFound, "missing")
	derived := base.WithPath("/tmp/x")
	assert.Empty(t, base.Ctx.Path)
	assert.Equal(t, "/tmp/x", derived.Ctx.Path)
}

func TestRecoverable(t *testing.T) {
	assert.False(t, Internal.Recoverable())
	assert.False(t, Validation.Recoverable())
	assert.False(t, Permission.Recoverable())
	assert.False(t, Config.Recoverable())
	assert.True(t, Filesystem.Recoverable())
	assert.True(t, Network.Recoverable())
	assert.True(t, Ai.Recoverable())
	assert.True(t, Chat.Recoverable())
	assert.True(t, Project.Recoverable())
}
