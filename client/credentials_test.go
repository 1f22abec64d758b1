package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/work-note/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	creds := NewFileCredentials(path)

	id, err := creds.Load()
	require.NoError(t, err)
	assert.Nil(t, id, "missing file means signed out")

	want := &user.Identity{
		User:   user.Profile{ID: "user-1", Email: "ada@example.com", FullName: "Ada"},
		Tokens: user.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900, TokenType: "Bearer"},
	}
	require.NoError(t, creds.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := creds.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.User.Email, got.User.Email)
	assert.Equal(t, want.Tokens, got.Tokens)

	require.NoError(t, creds.Clear())
	require.NoError(t, creds.Clear())
	id, err = creds.Load()
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestFileCredentials_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokens: [not, a, map"), 0o600))

	_, err := NewFileCredentials(path).Load()
	assert.Error(t, err)
}

func TestMemoryCredentials_ReturnsCopies(t *testing.T) {
	creds := &MemoryCredentials{}
	id := &user.Identity{User: user.Profile{ID: "user-1"}, Tokens: user.TokenPair{RefreshToken: "r"}}
	require.NoError(t, creds.Save(id))

	id.User.ID = "changed"
	got, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.User.ID)
}
