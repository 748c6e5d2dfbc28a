package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/plexsphere/i2samp/internal/host/hosttest"
	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

// --- Fakes ---

type fakeSystemd struct {
	enabled     bool
	rebootCalls int
}

func (f *fakeSystemd) IsAvailable() bool { return true }

func (f *fakeSystemd) DaemonReload(_ context.Context) error { return nil }

func (f *fakeSystemd) IsEnabled(_ context.Context, _ string) bool { return f.enabled }

func (f *fakeSystemd) Reboot(_ context.Context) error {
	f.rebootCalls++
	return nil
}

func (f *fakeSystemd) Enable(_ context.Context, _ string) error {
	f.enabled = true
	return nil
}

func (f *fakeSystemd) Disable(_ context.Context, _ string) error {
	f.enabled = false
	return nil
}

type fakeRunner struct{ calls []string }

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return "", nil
}

func (r *fakeRunner) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

type fakeRoot struct{}

func (fakeRoot) IsRoot() bool { return true }

type env struct {
	fs      *hosttest.MemFS
	systemd *fakeSystemd
	runner  *fakeRunner
	cfgPath string
}

func piSeed() map[string]string {
	return map[string]string{
		"/proc/device-tree/model":              "Raspberry Pi 3 Model B Plus Rev 1.3\x00",
		"/boot/config.txt":                     "dtparam=audio=on\n",
		"/etc/modprobe.d/raspi-blacklist.conf": "blacklist snd_soc_max98357a\nblacklist snd_soc_max98357a_i2c\n",
		"/proc/modules":                        "snd_soc_max98357a 16384 1 - Live 0x0\n",
	}
}

// newEnv swaps the command dependencies for in-memory fakes and writes an
// explicit config file so the host's /etc is never read.
func newEnv(t *testing.T, seed map[string]string) *env {
	t.Helper()
	e := &env{
		fs:      hosttest.NewMemFS(seed),
		systemd: &fakeSystemd{},
		runner:  &fakeRunner{},
		cfgPath: filepath.Join(t.TempDir(), "config.yaml"),
	}
	if err := os.WriteFile(e.cfgPath, []byte("log_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := newDeps
	newDeps = func(_ *provision.Config, out io.Writer, p prompt.Prompter) provision.Deps {
		return provision.Deps{
			FS:       e.fs,
			Runner:   e.runner,
			Systemd:  e.systemd,
			Root:     fakeRoot{},
			Prompter: p,
			Out:      out,
		}
	}
	t.Cleanup(func() {
		newDeps = orig
		resetFlags()
	})
	return e
}

// resetFlags restores every flag to its default; cobra keeps flag state
// between Execute calls on the shared root command.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--config", e.cfgPath))
	err := rootCmd.Execute()
	return buf.String(), err
}

// --- Tests ---

func TestInstallCommand_Yes(t *testing.T) {
	e := newEnv(t, piSeed())

	out, err := e.run(t, "", "install", "--yes", "--no-reboot")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All done!") {
		t.Errorf("output missing 'All done!': %s", out)
	}
	boot, _ := e.fs.Content("/boot/config.txt")
	if !strings.Contains(boot, "dtoverlay=googlevoicehat-soundcard") {
		t.Errorf("overlay not added: %q", boot)
	}
	if !e.systemd.enabled {
		t.Error("playback service not enabled")
	}
	if len(e.runner.calls) != 1 || !strings.HasPrefix(e.runner.calls[0], "speaker-test") {
		t.Errorf("runner calls = %q, want one speaker test", e.runner.calls)
	}
	if e.systemd.rebootCalls != 0 {
		t.Error("rebooted despite --no-reboot")
	}
}

func TestInstallCommand_OverlayFlag(t *testing.T) {
	e := newEnv(t, piSeed())

	if out, err := e.run(t, "", "install", "--yes", "--no-test", "--no-reboot", "--overlay", "hifiberry-dac"); err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	boot, _ := e.fs.Content("/boot/config.txt")
	if !strings.Contains(boot, "dtoverlay=hifiberry-dac\n") {
		t.Errorf("overlay flag ignored: %q", boot)
	}
	if len(e.runner.calls) != 0 {
		t.Errorf("speaker test ran despite --no-test: %q", e.runner.calls)
	}
}

func TestInstallCommand_InvalidOverlay(t *testing.T) {
	e := newEnv(t, piSeed())

	_, err := e.run(t, "", "install", "--yes", "--overlay", "bad overlay")
	if err == nil || !strings.Contains(err.Error(), "i2samp install") {
		t.Fatalf("install = %v, want wrapped validation error", err)
	}
	if len(e.fs.Ops()) != 0 {
		t.Error("invalid overlay still changed files")
	}
}

func TestInstallCommand_Declined(t *testing.T) {
	e := newEnv(t, piSeed())

	out, err := e.run(t, "n\n", "install")
	if err != nil {
		t.Fatalf("declined install should succeed, got %v", err)
	}
	if !strings.Contains(out, "Aborting...") {
		t.Errorf("output missing 'Aborting...': %s", out)
	}
	if len(e.fs.Ops()) != 0 {
		t.Errorf("declined install changed files: %q", e.fs.Ops())
	}
}

func TestInstallCommand_Unsupported(t *testing.T) {
	seed := piSeed()
	delete(seed, "/proc/device-tree/model")
	e := newEnv(t, seed)

	_, err := e.run(t, "", "install", "--yes")
	if err == nil {
		t.Fatal("expected error on unsupported board")
	}
	if !strings.Contains(err.Error(), "i2samp install") || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("error = %v", err)
	}
}

func TestInstallCommand_MissingExplicitConfig(t *testing.T) {
	e := newEnv(t, piSeed())
	e.cfgPath = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := e.run(t, "", "install", "--yes"); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestStatusCommand(t *testing.T) {
	e := newEnv(t, piSeed())

	out, err := e.run(t, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{
		"Supported:          yes (/boot/config.txt)",
		"Overlay active:     no",
		"Blacklist:          active:",
		"Driver loaded:      yes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
	if len(e.fs.Ops()) != 0 {
		t.Errorf("status changed files: %q", e.fs.Ops())
	}
}

func TestTestCommand(t *testing.T) {
	t.Run("driver loaded", func(t *testing.T) {
		e := newEnv(t, piSeed())
		if out, err := e.run(t, "", "test"); err != nil {
			t.Fatalf("test: %v\n%s", err, out)
		}
		if len(e.runner.calls) != 1 {
			t.Errorf("runner calls = %q", e.runner.calls)
		}
	})

	t.Run("driver missing", func(t *testing.T) {
		seed := piSeed()
		seed["/proc/modules"] = ""
		e := newEnv(t, seed)
		_, err := e.run(t, "", "test")
		if err == nil || !strings.Contains(err.Error(), "not loaded") {
			t.Fatalf("test = %v, want driver not loaded", err)
		}
		if len(e.runner.calls) != 0 {
			t.Error("speaker test ran without the driver")
		}
	})

	t.Run("forced", func(t *testing.T) {
		seed := piSeed()
		seed["/proc/modules"] = ""
		e := newEnv(t, seed)
		if _, err := e.run(t, "", "test", "--force"); err != nil {
			t.Fatal(err)
		}
		if len(e.runner.calls) != 1 {
			t.Error("speaker test did not run with --force")
		}
	})
}

func TestUninstallCommand(t *testing.T) {
	e := newEnv(t, piSeed())
	if out, err := e.run(t, "", "install", "--yes", "--no-test", "--no-reboot"); err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	resetFlags()

	out, err := e.run(t, "", "uninstall", "--restore-asound")
	if err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if _, ok := e.fs.Content("/etc/systemd/system/aplay.service"); ok {
		t.Error("unit file still present")
	}
	if e.systemd.enabled {
		t.Error("service still enabled")
	}
	// There was no asound.conf before install, so there is no backup.
	if !strings.Contains(out, "no backup") {
		t.Errorf("output = %s", out)
	}
}
