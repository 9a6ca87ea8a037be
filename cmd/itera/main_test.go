package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "itera dev")
	assert.Contains(t, buf.String(), "commit: none")
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "itera 1.0.0")
	assert.Contains(t, buf.String(), "commit: abc123")
	assert.Contains(t, buf.String(), "built: 2026-01-01")
}

func TestRootHelpListsCommands(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	for _, name := range []string{"login", "list", "toggle", "extend", "watch", "notify", "replay", "cache"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "http://127.0.0.1:1")

	for _, args := range [][]string{
		{"list", "itera"},
		{"show", "abc"},
		{"toggle", "abc"},
		{"replay"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

		err := cmd.Execute()
		assert.ErrorIs(t, err, errNotLoggedIn, "args %v", args)
	}

	// failures end up in the local error log
	out, err := runCLI(t, cfgPath, "errors")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "itera list")
}

func TestLoginNeedsPassword(t *testing.T) {
	t.Setenv("ITERA_PASSWORD", "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, cfgPath, "login", "--email", "a@b.co")
	assert.ErrorContains(t, err, "password required")
}
