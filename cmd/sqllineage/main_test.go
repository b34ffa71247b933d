package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sqllineage/analyzer/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	require.NoError(t, err, "version command error")
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err, "help command error")
	assert.Contains(t, buf.String(), "analyze")
}

func TestAnalyzeCommand_FileArgument(t *testing.T) {
	tmpDir := t.TempDir()
	sqlPath := filepath.Join(tmpDir, "q.sql")
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT id FROM orders"), 0o644))

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"analyze", sqlPath, "--config", tmpDir})

	err := cmd.Execute()
	require.NoError(t, err, "analyze command error")
	assert.NotEmpty(t, buf.String())
}

func TestAnalyzeCommand_JSONOutput(t *testing.T) {
	tmpDir := t.TempDir()
	sqlPath := filepath.Join(tmpDir, "q.sql")
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT id FROM orders"), 0o644))

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"analyze", sqlPath, "--output", "json", "--config", tmpDir})

	err := cmd.Execute()
	require.NoError(t, err, "analyze --output json command error")
	assert.Contains(t, buf.String(), "statements")
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	assert.Error(t, err, "unknown command should return an error")
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
