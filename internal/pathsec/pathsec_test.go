package pathsec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsTraversal(t *testing.T) {
	_, err := Validate("../../etc/passwd")
	require.Error(t, err)
}

func TestValidateRejectsBlockedPrefix(t *testing.T) {
	_, err := Validate("/etc/hosts")
	require.Error(t, err)
}

func TestValidateAcceptsOrdinaryPath(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("hi"), 0644))

	resolved, err := Validate(f)
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
}

func TestValidateRejectsEmpty(t *testing.T) {
	_, err := Validate("")
	require.Error(t, err)
}

func TestValidateAllowsNotYetExistingLeaf(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "new.txt")

	resolved, err := Validate(f)
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
}
