package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)
	c, err := LoadCache(path)
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	content := []byte("package models\n")
	assert.False(t, c.Fresh("user_tablegen.go", content))
	c.Put("user_tablegen.go", content)
	c.Put("post_tablegen.go", content)
	assert.True(t, c.Fresh("user_tablegen.go", content))
	assert.False(t, c.Fresh("user_tablegen.go", []byte("package other\n")))
	require.NoError(t, c.Save())

	c, err = LoadCache(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Fresh("user_tablegen.go", content))

	c.Retain([]string{"user_tablegen.go"})
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Fresh("post_tablegen.go", content))
}

func TestCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)
	require.NoError(t, os.WriteFile(path, []byte("not msgpack"), 0o644))
	c, err := LoadCache(path)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}
