// Package install sequences the provisioning run: precondition checks,
// directory setup, backups, secret collection, optional persistence,
// template emission, and the summary report.
//
// The sequence is strictly linear and fail-fast. A fatal error halts the
// run immediately; completed steps are never rolled back.
package install

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/mhoffman/clawstrap/internal/assets"
	"github.com/mhoffman/clawstrap/internal/backup"
	"github.com/mhoffman/clawstrap/internal/config"
	"github.com/mhoffman/clawstrap/internal/doctor"
	"github.com/mhoffman/clawstrap/internal/emit"
	cserrors "github.com/mhoffman/clawstrap/internal/errors"
	"github.com/mhoffman/clawstrap/internal/logging"
	"github.com/mhoffman/clawstrap/internal/paths"
	"github.com/mhoffman/clawstrap/internal/rcfile"
	"github.com/mhoffman/clawstrap/internal/secrets"
)

// secretPrompts lists the collected secrets in their fixed collection order.
// The names must match the ${NAME} placeholders in the settings template.
var secretPrompts = []struct {
	Name   string
	Prompt string
}{
	{"ANTHROPIC_API_KEY", "Enter your Anthropic API key"},
	{"GITHUB_PERSONAL_ACCESS_TOKEN", "Enter your GitHub personal access token"},
	{"BRAVE_API_KEY", "Enter your Brave Search API key"},
}

// Installer runs the provisioning sequence.
type Installer struct {
	cfg *config.Config
	log *slog.Logger

	home         string
	manifestPath string

	interactive bool
	rawIn       io.Reader
	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer

	collector *secrets.Collector
	envSet    secrets.Setter
	backups   *backup.Manager
	rcw       *rcfile.Writer
	emitter   *emit.Emitter
}

// Option configures an Installer.
type Option func(*Installer)

// WithIO replaces the interactive streams. Used by tests to script a run.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(ins *Installer) {
		ins.rawIn = in
		ins.out = out
		ins.errOut = errOut
		ins.interactive = false
	}
}

// WithHome overrides home directory resolution.
func WithHome(home string) Option {
	return func(ins *Installer) {
		ins.home = home
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(ins *Installer) {
		if log != nil {
			ins.log = log
		}
	}
}

// WithEnvSetter overrides how confirmed secrets are bound into the
// environment. Tests use a map-backed setter.
func WithEnvSetter(set secrets.Setter) Option {
	return func(ins *Installer) {
		ins.envSet = set
	}
}

// WithManifestPath overrides where the run manifest is written.
// An empty path disables the manifest.
func WithManifestPath(path string) Option {
	return func(ins *Installer) {
		ins.manifestPath = path
	}
}

// New creates an Installer. With no options it runs interactively on
// stdin/stdout with secrets read echo-free from the terminal.
func New(cfg *config.Config, opts ...Option) *Installer {
	if cfg == nil {
		cfg = &config.Config{}
	}
	ins := &Installer{
		cfg:          cfg,
		log:          logging.Default(),
		rawIn:        os.Stdin,
		out:          os.Stdout,
		errOut:       os.Stderr,
		interactive:  true,
		manifestPath: defaultManifestPath(),
		backups:      backup.NewManager(),
		rcw:          rcfile.NewWriter(),
		emitter:      emit.NewEmitter(),
	}
	for _, opt := range opts {
		opt(ins)
	}

	// One buffered reader serves both the installer's own prompts and the
	// collector, so neither reads ahead of the other.
	ins.in = bufio.NewReader(ins.rawIn)

	collectorOpts := []secrets.Option{}
	if ins.envSet != nil {
		collectorOpts = append(collectorOpts, secrets.WithEnvSetter(ins.envSet))
	}
	if ins.interactive {
		collectorOpts = append(collectorOpts,
			secrets.WithSecretReader(secrets.NoEchoReader(ins.in, ins.out)))
	}
	ins.collector = secrets.NewCollectorWithIO(ins.in, ins.out, collectorOpts...)

	return ins
}

// defaultManifestPath returns the run manifest location under the XDG state home.
func defaultManifestPath() string {
	return filepath.Join(paths.StateHome(), config.AppName, "last-run.yaml")
}

// Run executes the provisioning sequence end to end.
func (ins *Installer) Run() error {
	header := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)

	// Resolve home before anything else; every path hangs off it.
	if ins.home == "" {
		home, err := paths.ResolveHome()
		if err != nil {
			return cserrors.NewPreconditionError(err)
		}
		ins.home = home
	}

	targetDir := ins.cfg.TargetDir
	if targetDir == "" {
		targetDir = paths.AssistantDir(ins.home)
	}
	policyPath := paths.PolicyPath(targetDir)
	settingsPath := paths.SettingsPath(targetDir)

	// PreconditionCheck: fatal problems abort before any mutation,
	// missing optional runtime deps only warn.
	header.Fprintln(ins.out, "Checking preconditions")
	checks := []doctor.Check{
		doctor.NewHomeCheck(ins.home),
		doctor.NewTargetDirCheck(targetDir),
		doctor.NewSettingsCheck(targetDir),
	}
	if !ins.cfg.SkipOptionalChecks {
		checks = append(checks,
			doctor.NewRuntimeCheck("claude", "the assistant CLI; install it to use the provisioned configuration"),
			doctor.NewRuntimeCheck("node", "required by the configured MCP servers"),
			doctor.NewRuntimeCheck("npx", "required to launch the configured MCP servers"),
		)
	}
	results := doctor.RunAll(checks)
	for _, r := range results {
		switch r.Status {
		case doctor.SeverityWarning:
			warn.Fprintf(ins.errOut, "WARN: %s\n", r.Message)
		case doctor.SeverityError:
			fail.Fprintf(ins.errOut, "ERROR: %s\n", r.Message)
		}
	}
	if doctor.HasErrors(results) {
		return cserrors.NewPreconditionError(cserrors.ErrPreconditionFailed)
	}

	// DirectorySetup
	if err := paths.EnsureDir(targetDir, 0o700); err != nil {
		return cserrors.NewSystemError(
			errors.Wrapf(err, "creating %s", targetDir),
			"Check directory permissions")
	}
	ins.log.Debug("target directory ready", "dir", targetDir)

	// Backups: pre-existing targets are copied aside before anything
	// overwrites them. A failed copy aborts the run.
	var records []backup.Record
	for _, path := range []string{policyPath, settingsPath} {
		rec, err := ins.backups.BackupIfExists(path)
		if err != nil {
			return cserrors.NewSystemError(err, "Resolve the copy failure and re-run")
		}
		if rec != nil {
			fmt.Fprintf(ins.out, "Backed up %s -> %s\n", rec.OriginalPath, rec.BackupPath)
			records = append(records, *rec)
		}
	}

	// SecretCollection: three prompts, each blocking until confirmed.
	header.Fprintln(ins.out, "\nAPI keys")
	store := secrets.NewStore()
	for _, sp := range secretPrompts {
		entry, err := ins.collector.Collect(sp.Name, sp.Prompt)
		if err != nil {
			return cserrors.NewUserError(err, "Re-run the installer to finish setup")
		}
		store.Add(entry)
		ins.log.Debug("secret bound", "name", entry.Name)
	}

	// PersistenceDecision
	target, persistErr := ins.maybePersist(store.Entries())
	if persistErr != nil {
		fail.Fprintf(ins.errOut, "ERROR: persisting keys: %v\n", persistErr)
	}

	// TemplateEmission: the two documents are written independently, each
	// atomically. The first failure aborts; an already-written document
	// stays in place.
	header.Fprintln(ins.out, "\nWriting configuration")
	targets := []emit.TargetFile{
		{Path: policyPath, Content: assets.Policy()},
		{Path: settingsPath, Content: assets.Settings()},
	}
	var written []string
	for _, t := range targets {
		if err := ins.emitter.WriteTarget(t); err != nil {
			return cserrors.NewSystemError(err, "Check file permissions and re-run")
		}
		fmt.Fprintf(ins.out, "Wrote %s\n", t.Path)
		written = append(written, t.Path)
	}

	// Run manifest is bookkeeping; failure to write it never fails the run.
	if err := ins.writeManifest(targetDir, written, records, store, target); err != nil {
		warn.Fprintf(ins.errOut, "WARN: could not write run manifest: %v\n", err)
	}

	ins.printSummary(targetDir, written, records, store, target)

	if persistErr != nil {
		return cserrors.NewSystemError(persistErr, "Append the export lines manually")
	}
	return nil
}

// maybePersist drives the persistence decision dialogue and appends the
// export block when the operator opts in. It returns the chosen target, or
// nil when persistence was skipped. An append failure is returned to be
// reported; it must not stop template emission.
func (ins *Installer) maybePersist(entries []secrets.Entry) (*rcfile.Target, error) {
	fmt.Fprintln(ins.out)
	yes, err := ins.ask("Persist these keys to a shell startup file? [y/N]: ", false)
	if err != nil {
		return nil, err
	}
	if !yes {
		fmt.Fprintln(ins.out, "Keys stay in this session only.")
		return nil, nil
	}

	var target rcfile.Target
	if ins.cfg.RCFile != "" {
		target = rcfile.Resolve(ins.cfg.RCFile)
	} else {
		target, err = rcfile.Suggest(paths.RCCandidates(ins.home))
		if err != nil {
			return nil, err
		}
	}
	if !target.ExistedBefore {
		fmt.Fprintf(ins.out, "Note: %s does not exist yet and will be created.\n", target.Path)
	}

	ok, err := ins.ask(fmt.Sprintf("Append to %s? [Y/n]: ", target.Path), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Fprint(ins.out, "Enter a startup file path (empty to skip): ")
		line, err := ins.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			fmt.Fprintln(ins.out, "Skipping persistence; keys stay in this session only.")
			return nil, nil
		}
		target = rcfile.Resolve(line)
	}

	if err := ins.rcw.AppendExports(target, entries); err != nil {
		return &target, err
	}
	fmt.Fprintf(ins.out, "Appended %d export lines to %s\n", len(entries), target.Path)
	return &target, nil
}

// ask prompts for a yes/no answer. An empty line selects the default.
func (ins *Installer) ask(prompt string, defaultYes bool) (bool, error) {
	fmt.Fprint(ins.out, prompt)
	line, err := ins.readLine()
	if err != nil {
		return false, err
	}
	if line == "" {
		return defaultYes, nil
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

// readLine reads one trimmed line from the shared input source.
// A closed input stream surfaces as ErrInputClosed rather than being
// swallowed; an interrupted dialogue must end the run.
func (ins *Installer) readLine() (string, error) {
	line, err := ins.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", cserrors.ErrInputClosed
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
	}
	return strings.TrimSpace(line), nil
}

// printSummary reports the final state of the run to the operator.
func (ins *Installer) printSummary(targetDir string, written []string, records []backup.Record, store *secrets.Store, target *rcfile.Target) {
	success := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	fmt.Fprintln(ins.out)
	success.Fprintln(ins.out, "Setup complete")

	label.Fprint(ins.out, "  Configuration: ")
	fmt.Fprintln(ins.out, targetDir)

	for _, path := range written {
		fmt.Fprintf(ins.out, "    %s\n", path)
	}

	if len(records) > 0 {
		label.Fprintln(ins.out, "  Backups:")
		for _, rec := range records {
			fmt.Fprintf(ins.out, "    %s\n", rec.BackupPath)
		}
	}

	label.Fprint(ins.out, "  Keys exported: ")
	names := make([]string, 0, store.Len())
	for _, e := range store.Entries() {
		names = append(names, e.Name)
	}
	fmt.Fprintln(ins.out, strings.Join(names, ", "))

	if target != nil {
		fmt.Fprintf(ins.out, "  Restart your shell or run: source %s\n", target.Path)
	} else {
		fmt.Fprintln(ins.out, "  Keys are available in this session only.")
	}
}
