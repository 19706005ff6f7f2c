package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"forgiveness/internal/commands"
	"forgiveness/internal/config"
	"forgiveness/internal/exitcode"
	"forgiveness/internal/logging"
	"forgiveness/internal/service"
	"forgiveness/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, cfg *config.Config, svc service.Service, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	env := &commands.Env{
		Config:  cfg,
		Service: svc,
		Log:     logging.New(&outBuf, logging.Options{Debug: cfg.Debug, Quiet: cfg.Quiet}),
		Out:     &outBuf,
		ErrOut:  &errBuf,
	}
	code = cmd.Run(context.Background(), env, args)
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, config.New(t.TempDir()), nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "forgiveness 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestListsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("1", "Home")
	svc.AddList("2", "Work")
	cfg := config.New(t.TempDir())
	cfg.ListTitle = "Work"

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, cfg, svc, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Home\t1\nWork [configured]\t2\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListsCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListListsErr = errors.New("connection refused")

	_, stderr, code := runCommand(t, &commands.ListsCmd{}, config.New(t.TempDir()), svc, nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunCommand_TitleFromArgs(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("1", "Weekly chores")
	svc.AddTask("1", service.Task{ID: "7", Title: "Vacuum", Revision: 2, Due: "2001-05-05"})

	_, stderr, code := runCommand(t, &commands.RunCmd{}, config.New(t.TempDir()), svc, []string{"Weekly", "chores"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if len(svc.Updates) != 1 {
		t.Errorf("expected one update, got %+v", svc.Updates)
	}
}

func TestRunCommand_TitleRequired(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RunCmd{}, config.New(t.TempDir()), testutil.NewFakeService(), nil)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr == "" {
		t.Error("expected an error message")
	}
}

func TestRunCommand_FetchError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("1", "Home")
	svc.ListNotesErr = errors.New("timeout")
	cfg := config.New(t.TempDir())
	cfg.ListTitle = "Home"

	_, stderr, code := runCommand(t, &commands.RunCmd{}, cfg, svc, nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: fetch notes: timeout\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunCommand_QuietHidesSummary(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("1", "Home")
	cfg := config.New(t.TempDir())
	cfg.ListTitle = "Home"
	cfg.Quiet = true

	stdout, _, code := runCommand(t, &commands.RunCmd{}, cfg, svc, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output when quiet, got %q", stdout)
	}
}

func TestLogoutCommand(t *testing.T) {
	cfg := config.New(t.TempDir())

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, cfg, nil, nil)
	if code != exitcode.Success || stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %q (code %d)", stdout, code)
	}

	if err := os.WriteFile(filepath.Join(cfg.Dir, config.TokenFile), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	stdout, _, code = runCommand(t, &commands.LogoutCmd{}, cfg, nil, nil)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q (code %d)", stdout, code)
	}
	if cfg.HasToken() {
		t.Error("expected token to be removed")
	}
}

func TestLoginCommand_MissingClient(t *testing.T) {
	cfg := config.New(t.TempDir())

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, cfg, nil, nil)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !bytes.Contains([]byte(stderr), []byte("oauth_client.json not found")) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_Conflicts(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.RunCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&commands.RunCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if cmd, ok := r.Find("forgive"); !ok || cmd.Name() != "run" {
		t.Error("expected alias lookup to find run")
	}
}
