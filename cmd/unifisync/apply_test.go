package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("controller: {}\n"), 0o644))
	return path
}

func TestApplyCommandRequiresConfigFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "config")
}

func TestApplyCommandInvokesRunner(t *testing.T) {
	original := applyCmdRunner
	t.Cleanup(func() { applyCmdRunner = original })

	var captured applyOptions
	applyCmdRunner = func(opts applyOptions) error {
		captured = opts
		return nil
	}

	path := writeTempConfig(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply", "-c", path, "--check", "--debug", "3", "--log-file", "/tmp/run.log"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.NoError(t, cmd.Execute())
	require.Equal(t, path, captured.ConfigPath)
	require.True(t, captured.Check)
	require.Equal(t, 3, captured.Debug)
	require.Equal(t, "/tmp/run.log", captured.LogFile)
}

func TestVerifyCommandForcesCheckMode(t *testing.T) {
	original := verifyCmdRunner
	t.Cleanup(func() { verifyCmdRunner = original })

	var captured applyOptions
	verifyCmdRunner = func(opts applyOptions) error {
		captured = opts
		return nil
	}

	path := writeTempConfig(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"verify", "-c", path})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.NoError(t, cmd.Execute())
	require.True(t, captured.Check)
	require.Equal(t, path, captured.ConfigPath)
}

func TestApplyLogFileFallsBackToEnv(t *testing.T) {
	original := applyCmdRunner
	t.Cleanup(func() { applyCmdRunner = original })

	var captured applyOptions
	applyCmdRunner = func(opts applyOptions) error {
		captured = opts
		return nil
	}

	t.Setenv(logFileEnv, "/tmp/env.log")

	path := writeTempConfig(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply", "-c", path})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.NoError(t, cmd.Execute())
	require.Equal(t, "/tmp/env.log", captured.LogFile)
}

func TestValidateApplyOptions(t *testing.T) {
	t.Parallel()

	require.Error(t, validateApplyOptions(applyOptions{ConfigPath: "  "}))
	require.Error(t, validateApplyOptions(applyOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}))
	require.Error(t, validateApplyOptions(applyOptions{ConfigPath: t.TempDir()}))

	path := filepath.Join(t.TempDir(), "ok.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, validateApplyOptions(applyOptions{ConfigPath: path}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "unifisync")
	require.Contains(t, out.String(), "commit:")
}
