package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtensions(t *testing.T) {
	assert.Nil(t, parseExtensions(""))
	assert.Equal(t, []string{".swift", ".h"}, parseExtensions("swift,h"))
	assert.Equal(t, []string{".swift", ".m"}, parseExtensions(".swift, m"))
	assert.Equal(t, []string{".h"}, parseExtensions(",h,"))
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, isGitURL("https://github.com/user/app.git"))
	assert.True(t, isGitURL("git@github.com:user/app.git"))
	assert.False(t, isGitURL("MyApp"))
	assert.False(t, isGitURL("https://example.com/page"))
}

func TestProjectNameFromGitURL(t *testing.T) {
	assert.Equal(t, "app", projectNameFromGitURL("https://github.com/user/app.git"))
	assert.Equal(t, "app", projectNameFromGitURL("git@github.com:user/app.git"))
	assert.Equal(t, "repository", projectNameFromGitURL(".git"))
}

func TestIsWebURL(t *testing.T) {
	assert.True(t, isWebURL("https://example.com"))
	assert.True(t, isWebURL("http://example.com"))
	assert.False(t, isWebURL("example.com"))
}

func TestListProjects(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Beta"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Alpha"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "stray.txt"), []byte("x"), 0o644))

	projects, err := listProjects(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, projects)
}

func TestApplyConfigSettings(t *testing.T) {
	origKeep, origMax, origTokens := keepComments, maxSizeBytes, disableTokens
	t.Cleanup(func() {
		keepComments, maxSizeBytes, disableTokens = origKeep, origMax, origTokens
		viper.Set("keep_comments", origKeep)
		viper.Set("max_size", origMax)
		viper.Set("no_tokens", origTokens)
	})

	// Config/env values reach the globals when the flag was not set.
	viper.Set("keep_comments", true)
	viper.Set("max_size", int64(4096))
	viper.Set("no_tokens", true)
	applyConfigSettings()

	assert.True(t, keepComments)
	assert.Equal(t, int64(4096), maxSizeBytes)
	assert.True(t, disableTokens)
}

func TestListProjectsMissingBase(t *testing.T) {
	_, err := listProjects(filepath.Join(t.TempDir(), "gone"))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
