package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/plexsphere/i2samp/internal/alsa"
	"github.com/plexsphere/i2samp/internal/bootcfg"
	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/modprobe"
	"github.com/plexsphere/i2samp/internal/packaging"
	"github.com/plexsphere/i2samp/internal/prompt"
)

// ErrNotRoot is returned when the installer lacks root privileges.
var ErrNotRoot = errors.New("provision: installer requires root privileges")

// Deps are the collaborators the orchestrator acts through.
type Deps struct {
	FS       host.FS
	Runner   host.Runner
	Systemd  packaging.SystemdController
	Root     host.RootChecker
	Prompter prompt.Prompter

	// Out receives operator-facing progress messages. Default: io.Discard
	Out io.Writer
}

// Options switch off the optional offers at the end of a run.
type Options struct {
	SkipTest   bool
	SkipReboot bool
}

// Result describes a finished run.
type Result struct {
	// State is the final state: StateDone or StateAborted.
	State State

	// BootConfig is the located boot configuration path.
	BootConfig string

	OverlayAdded        bool
	ServiceNewlyEnabled bool

	// RebootRequired is the OR of every step that changed boot-time state.
	RebootRequired bool

	// Declined is set when the operator declined to continue.
	Declined bool

	Tested   bool
	Rebooted bool

	// Warnings lists non-fatal failures of auxiliary commands.
	Warnings []string
}

// stepResult is what each step reports back to Run.
type stepResult struct {
	mutated bool
	stop    bool
}

type step struct {
	state State
	run   func(ctx context.Context, res *Result) (stepResult, error)
}

// Orchestrator runs the provisioning state machine.
type Orchestrator struct {
	cfg     Config
	opts    Options
	deps    Deps
	logger  *slog.Logger
	locator *bootcfg.Locator
	patcher *modprobe.Patcher
	writer  *alsa.Writer
	service *packaging.Installer
}

// NewOrchestrator creates an Orchestrator with defaults applied to cfg.
func NewOrchestrator(cfg Config, opts Options, deps Deps, logger *slog.Logger) *Orchestrator {
	cfg.ApplyDefaults()
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	return &Orchestrator{
		cfg:     cfg,
		opts:    opts,
		deps:    deps,
		logger:  logger.With("component", "provision"),
		locator: bootcfg.NewLocator(cfg.Boot, deps.FS, logger),
		patcher: modprobe.NewPatcher(deps.FS, logger),
		writer:  alsa.NewWriter(deps.FS, logger),
		service: packaging.NewInstaller(cfg.Service, deps.Systemd, deps.FS, logger),
	}
}

// Run executes every step in order. A fatal error moves the run to
// StateAborted and is returned alongside the partial Result; changes already
// made stay in place and a re-run resumes safely.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	steps := []step{
		{StateInit, o.init},
		{StateCheckSupport, o.checkSupport},
		{StateConfigureOverlay, o.configureOverlay},
		{StatePatchBlacklist, o.patchBlacklist},
		{StateConfigureAudio, o.configureAudio},
		{StateInstallService, o.installService},
		{StateOfferTest, o.offerTest},
		{StateOfferReboot, o.offerReboot},
	}

	var res Result
	for _, s := range steps {
		res.State = s.state
		o.logger.Debug("entering state", "state", s.state)

		sr, err := s.run(ctx, &res)
		if err != nil {
			o.logger.Error("provisioning aborted", "state", s.state, "error", err)
			res.State = StateAborted
			return res, err
		}
		if sr.mutated {
			res.RebootRequired = true
		}
		if sr.stop {
			break
		}
	}
	res.State = StateDone
	o.logger.Info("provisioning finished",
		"reboot_required", res.RebootRequired,
		"declined", res.Declined,
		"warnings", len(res.Warnings),
	)
	return res, nil
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.deps.Out, format, args...)
}

func (o *Orchestrator) warn(res *Result, msg string, err error) {
	o.logger.Warn(msg, "error", err)
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

// isCommandFailure reports whether err came from an auxiliary external command.
func isCommandFailure(err error) bool {
	var cmdErr *host.CommandError
	return errors.As(err, &cmdErr)
}

func (o *Orchestrator) init(_ context.Context, res *Result) (stepResult, error) {
	if !o.deps.Root.IsRoot() {
		return stepResult{}, ErrNotRoot
	}
	if !o.deps.Systemd.IsAvailable() {
		return stepResult{}, packaging.ErrSystemdUnavailable
	}

	o.printf("\nThis script will install everything needed to use\n%s.\n\n", o.cfg.ProductName)
	prompt.Warn(o.deps.Out, "--- Warning ---")
	o.printf("\nAlways be careful when running scripts and commands\n" +
		"copied from the internet. Ensure they are from a\n" +
		"trusted source.\n\n")

	ok, err := o.deps.Prompter.Confirm("Do you wish to continue?", false)
	if err != nil {
		return stepResult{}, err
	}
	if !ok {
		o.printf("\nAborting...\n")
		res.Declined = true
		return stepResult{stop: true}, nil
	}
	return stepResult{}, nil
}

func (o *Orchestrator) checkSupport(_ context.Context, res *Result) (stepResult, error) {
	o.printf("\nChecking hardware requirements...\n")
	path, err := o.locator.Locate()
	if err != nil {
		return stepResult{}, err
	}
	res.BootConfig = path
	return stepResult{}, nil
}

func (o *Orchestrator) configureOverlay(_ context.Context, res *Result) (stepResult, error) {
	o.printf("\nAdding Device Tree Entry to %s\n", res.BootConfig)
	added, err := bootcfg.ActivateOverlay(o.deps.FS, res.BootConfig, o.cfg.Overlay)
	if err != nil {
		return stepResult{}, err
	}
	if !added {
		o.printf("dtoverlay already active\n")
	} else {
		o.logger.Info("overlay added", "path", res.BootConfig, "overlay", o.cfg.Overlay)
	}
	res.OverlayAdded = added
	return stepResult{mutated: added}, nil
}

func (o *Orchestrator) patchBlacklist(_ context.Context, _ *Result) (stepResult, error) {
	path := o.cfg.Blacklist.Path
	exists, err := o.deps.FS.Exists(path)
	if err != nil {
		return stepResult{}, fmt.Errorf("provision: stat %s: %w", path, err)
	}
	if exists {
		o.printf("\nCommenting out Blacklist entry in %s\n", path)
	}
	return stepResult{}, o.patcher.Patch(path, o.cfg.Blacklist.Modules)
}

func (o *Orchestrator) configureAudio(_ context.Context, _ *Result) (stepResult, error) {
	o.printf("Configuring sound output\n")
	content, err := alsa.Render(o.cfg.ALSA)
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, o.writer.Install(o.cfg.ALSA.Path, content)
}

func (o *Orchestrator) installService(ctx context.Context, res *Result) (stepResult, error) {
	o.printf("Installing %s systemd unit\n", o.service.ServiceName())
	if err := o.service.Install(ctx); err != nil {
		if !isCommandFailure(err) {
			return stepResult{}, err
		}
		o.warn(res, "service manager reload failed", err)
	}

	o.printf("\nYou can optionally activate '/dev/zero' playback in\n" +
		"the background at boot. This will remove all\n" +
		"popping/clicking but does use some processor time.\n\n")
	enable, err := o.deps.Prompter.Confirm("Activate '/dev/zero' playback in background? [RECOMMENDED]", true)
	if err != nil {
		return stepResult{}, err
	}

	newlyEnabled, err := o.service.SetEnabled(ctx, enable)
	if err != nil {
		if !isCommandFailure(err) {
			return stepResult{}, err
		}
		o.warn(res, "set service enabled state failed", err)
		return stepResult{}, nil
	}
	res.ServiceNewlyEnabled = newlyEnabled
	return stepResult{mutated: newlyEnabled}, nil
}

func (o *Orchestrator) offerTest(ctx context.Context, res *Result) (stepResult, error) {
	if o.opts.SkipTest {
		return stepResult{}, nil
	}
	loaded, err := DriverLoaded(o.deps.FS, o.cfg.ModulesPath, o.cfg.DriverModule)
	if err != nil {
		o.warn(res, "driver check failed", err)
		return stepResult{}, nil
	}
	if !loaded {
		o.logger.Info("driver not loaded yet, skipping hardware test", "module", o.cfg.DriverModule)
		return stepResult{}, nil
	}

	o.printf("\nWe can now test your %s\n", o.cfg.ProductName)
	prompt.Warn(o.deps.Out, "Set your speakers at a low volume if possible!")
	ok, err := o.deps.Prompter.Confirm("Do you wish to test your system now?", false)
	if err != nil {
		return stepResult{}, err
	}
	if !ok {
		return stepResult{}, nil
	}

	o.printf("Testing...\n")
	if err := o.TestSpeakers(ctx); err != nil {
		o.warn(res, "speaker test failed", err)
		return stepResult{}, nil
	}
	res.Tested = true
	return stepResult{}, nil
}

func (o *Orchestrator) offerReboot(ctx context.Context, res *Result) (stepResult, error) {
	o.printf("\n")
	prompt.Success(o.deps.Out, "All done!")
	o.printf("\nEnjoy your new %s!\n", o.cfg.ProductName)

	if !res.RebootRequired {
		return stepResult{}, nil
	}
	if o.opts.SkipReboot {
		o.printf("\nA reboot is required for the changes to take effect.\n")
		return stepResult{}, nil
	}

	ok, err := o.deps.Prompter.Confirm("\nREBOOT NOW?", false)
	if err != nil {
		return stepResult{}, err
	}
	if !ok {
		o.printf("\nA reboot is required for the changes to take effect.\n")
		return stepResult{}, nil
	}

	o.logger.Info("rebooting")
	cctx, cancel := context.WithTimeout(ctx, o.cfg.CommandTimeout)
	defer cancel()
	if err := o.deps.Systemd.Reboot(cctx); err != nil {
		o.warn(res, "reboot failed", err)
		return stepResult{}, nil
	}
	res.Rebooted = true
	return stepResult{}, nil
}

// TestSpeakers plays the test pattern, bounded by the test timeout.
func (o *Orchestrator) TestSpeakers(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.TestTimeout)
	defer cancel()
	argv := o.cfg.TestCommand
	if _, err := o.deps.Runner.Run(ctx, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("provision: speaker test: %w", err)
	}
	return nil
}
