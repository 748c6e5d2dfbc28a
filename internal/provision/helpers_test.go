package provision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/host/hosttest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock SystemdController ---

type mockSystemdController struct {
	available       bool
	enabled         bool
	daemonReloadErr error
	enableErr       error
	rebootErr       error

	daemonReloadCalls int
	enableCalls       int
	disableCalls      int
	rebootCalls       int
}

func (m *mockSystemdController) IsAvailable() bool { return m.available }

func (m *mockSystemdController) IsEnabled(_ context.Context, _ string) bool { return m.enabled }

func (m *mockSystemdController) DaemonReload(_ context.Context) error {
	m.daemonReloadCalls++
	return m.daemonReloadErr
}

func (m *mockSystemdController) Enable(_ context.Context, _ string) error {
	m.enableCalls++
	if m.enableErr != nil {
		return m.enableErr
	}
	m.enabled = true
	return nil
}

func (m *mockSystemdController) Disable(_ context.Context, _ string) error {
	m.disableCalls++
	m.enabled = false
	return nil
}

func (m *mockSystemdController) Reboot(_ context.Context) error {
	m.rebootCalls++
	return m.rebootErr
}

// --- Mock Runner ---

type mockRunner struct {
	calls []string
	err   error
}

func (r *mockRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, cmd)
	if r.err != nil {
		return "", &host.CommandError{Command: cmd, ExitCode: 1, Err: r.err}
	}
	return "", nil
}

func (r *mockRunner) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

// --- Mock RootChecker ---

type mockRootChecker struct {
	isRoot bool
}

func (m *mockRootChecker) IsRoot() bool { return m.isRoot }

// --- Scripted Prompter ---

// scriptedPrompter answers questions containing a key of answers with its
// value, and all other questions with their default.
type scriptedPrompter struct {
	answers map[string]bool
	err     error
	asked   []string
}

func (p *scriptedPrompter) Confirm(question string, def bool) (bool, error) {
	p.asked = append(p.asked, question)
	if p.err != nil {
		return false, p.err
	}
	for key, answer := range p.answers {
		if strings.Contains(question, key) {
			return answer, nil
		}
	}
	return def, nil
}

func (p *scriptedPrompter) wasAsked(substr string) bool {
	for _, q := range p.asked {
		if strings.Contains(q, substr) {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")

// --- Fixtures ---

const (
	bootPath      = "/boot/firmware/config.txt"
	blacklistPath = "/etc/modprobe.d/raspi-blacklist.conf"
	asoundPath    = "/etc/asound.conf"
	unitPath      = "/etc/systemd/system/aplay.service"
	modulesPath   = "/proc/modules"
)

// freshSeed is a stock Raspberry Pi OS image with the amplifier blacklisted.
func freshSeed() map[string]string {
	return map[string]string{
		"/proc/device-tree/model": "Raspberry Pi 4 Model B Rev 1.4\x00",
		bootPath:                  "[all]\ndtparam=audio=on\n",
		blacklistPath:             "blacklist spi-bcm2708\nblacklist snd_soc_max98357a\n",
		asoundPath:                "pcm.!default { type hw card 1 }\n",
		modulesPath:               "snd_soc_max98357a 16384 1 - Live 0x0000000000000000\nsnd_bcm2835 24576 0 - Live 0x0000000000000000\n",
	}
}

type fixture struct {
	fs       *hosttest.MemFS
	systemd  *mockSystemdController
	runner   *mockRunner
	root     *mockRootChecker
	prompter *scriptedPrompter
	out      *strings.Builder
}

func newFixture(seed map[string]string) *fixture {
	return &fixture{
		fs:       hosttest.NewMemFS(seed),
		systemd:  &mockSystemdController{available: true},
		runner:   &mockRunner{},
		root:     &mockRootChecker{isRoot: true},
		prompter: &scriptedPrompter{answers: map[string]bool{"continue": true}},
		out:      &strings.Builder{},
	}
}

func (f *fixture) orchestrator(opts Options) *Orchestrator {
	return NewOrchestrator(Config{}, opts, Deps{
		FS:       f.fs,
		Runner:   f.runner,
		Systemd:  f.systemd,
		Root:     f.root,
		Prompter: f.prompter,
		Out:      f.out,
	}, testLogger())
}

var hostCommandError = host.CommandError{Command: "systemctl", ExitCode: 1, Err: errBoom}
