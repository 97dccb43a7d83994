package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionAddUpdateIsIdempotent(t *testing.T) {
	c := NewCollection[int]()
	c.Add("a", 1)
	c.Add("a", 2)
	c.Update("a", 3)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, c.Count())
}

func TestCollectionRemoveAndClear(t *testing.T) {
	c := NewCollection[string]()
	c.Add("x", "hello")
	c.Remove("x")
	assert.False(t, c.Exists("x"))

	c.Add("y", "world")
	c.Clear()
	assert.Equal(t, 0, c.Count())
}

func TestOptionalSetGetClear(t *testing.T) {
	o := NewOptional[ProjectContext]()
	assert.False(t, o.Has())

	o.Set(ProjectContext{RootPath: "/p"})
	v, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, "/p", v.RootPath)

	o.Clear()
	assert.False(t, o.Has())
}

func TestNewKernelSeedsProvidersAndPreferences(t *testing.T) {
	k := NewKernel()
	assert.Equal(t, 3, k.AiProviders.Count())
	provider, ok := k.AiProviders.Get("claude")
	require.True(t, ok)
	assert.Equal(t, "Claude", provider.Name)

	theme, ok := k.Preferences.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestNewKernelSeedingIsIdempotent(t *testing.T) {
	k := NewKernel()
	k.seedDefaults()
	k.seedDefaults()
	assert.Equal(t, 3, k.AiProviders.Count())
}

func TestStatsReflectsCollections(t *testing.T) {
	k := NewKernel()
	s := k.CreateChatSession("/proj", "first")
	_ = s
	stats := k.Stats()
	assert.Equal(t, 1, stats.ChatSessions)
	assert.Equal(t, 3, stats.AiProviders)
	assert.False(t, stats.HasCurrentProj)

	k.CurrentProject.Set(ProjectContext{RootPath: "/proj"})
	assert.True(t, k.Stats().HasCurrentProj)
}

func TestChatSessionAppendOrderPreserved(t *testing.T) {
	k := NewKernel()
	s := k.CreateChatSession("/proj", "chat")

	_, err := k.SendChatMessage(s.ID, "hello")
	require.NoError(t, err)
	_, err = k.AppendChatMessage(s.ID, ChatMessage{Role: RoleAi, Content: "hi there"})
	require.NoError(t, err)

	got, err := k.GetChatSession(s.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hello", got.Messages[0].Content)
	assert.Equal(t, "hi there", got.Messages[1].Content)
}

func TestGetChatSessionMissingReturnsKernelError(t *testing.T) {
	k := NewKernel()
	_, err := k.GetChatSession("missing")
	require.Error(t, err)
}

func TestPreferencesRemoveReportsPresence(t *testing.T) {
	k := NewKernel()
	assert.True(t, k.Preferences.Remove("theme"))
	assert.False(t, k.Preferences.Remove("theme"))
}
