package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/shinji-kodama/vertexctl/internal/git"
	"github.com/shinji-kodama/vertexctl/internal/model"
	"github.com/shinji-kodama/vertexctl/internal/npm"
	"github.com/shinji-kodama/vertexctl/internal/shell"
)

// Step names, in execution order.
const (
	StepCheckDirty        = "CheckDirty"
	StepPromptMessage     = "PromptMessage"
	StepPromptVersion     = "PromptVersion"
	StepBuild             = "Build"
	StepVerifyBuildOutput = "VerifyBuildOutput"
	StepStageAndCommit    = "StageAndCommit"
	StepBumpVersion       = "BumpVersion"
	StepPushCommitAndTags = "PushCommitAndTags"
)

// Prompts shown to the operator.
const (
	MessagePrompt = "Commit message: "
	VersionPrompt = "Version (leave blank for patch bump): "
)

// Git is the subset of git.Repo the workflow uses.
type Git interface {
	Changes(ctx context.Context) ([]git.StatusEntry, error)
	CurrentBranch(ctx context.Context) (string, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, ref string) error
	PushTags(ctx context.Context, remote string) error
}

// NPM is the subset of npm.Tool the workflow uses.
type NPM interface {
	RunScript(ctx context.Context, script string) error
	Version(ctx context.Context, version string) error
}

// Options tunes the workflow. Zero values fall back to defaults.
type Options struct {
	// Dir is the repository root. Build output and package.json are
	// resolved relative to it.
	Dir string

	// BuildScript is the npm script that produces the build (default "build").
	BuildScript string

	// BuildDir is the build output directory (default "dist").
	BuildDir string

	// Remote is the git remote to push to (default "origin").
	Remote string

	// Logger receives debug details. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BuildScript == "" {
		o.BuildScript = "build"
	}
	if o.BuildDir == "" {
		o.BuildDir = "dist"
	}
	if o.Remote == "" {
		o.Remote = "origin"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Workflow is one release run.
type Workflow struct {
	git    Git
	npm    NPM
	prompt Prompter
	out    io.Writer
	opts   Options

	// readVersion reports the package version after the bump.
	readVersion func(dir string) (string, error)
}

// New creates a Workflow. Progress messages are written to out.
func New(repo Git, npmTool NPM, prompt Prompter, out io.Writer, opts Options) *Workflow {
	return &Workflow{
		git:         repo,
		npm:         npmTool,
		prompt:      prompt,
		out:         out,
		opts:        opts.withDefaults(),
		readVersion: npm.ReadVersion,
	}
}

// step is one fallible unit of the workflow.
type step struct {
	name string
	run  func(ctx context.Context, s *session) error
}

// StepResult records what happened to a step.
type StepResult struct {
	Name   string           `json:"name"`
	Status model.StepStatus `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// Result is the outcome of Run.
type Result struct {
	Steps []StepResult `json:"steps"`

	// ExitCode is what the process should exit with.
	ExitCode model.ExitCode `json:"exitCode"`

	// NoChanges is set when the working tree was clean.
	NoChanges bool `json:"noChanges"`

	// Version is the package version after the bump, when it could be read.
	Version string `json:"version,omitempty"`

	// Branch is the branch that was pushed, when it could be resolved.
	Branch string `json:"branch,omitempty"`
}

// session carries values between steps of one run.
type session struct {
	message string
	version string
	branch  string
}

// errNothingToDo stops the workflow successfully.
var errNothingToDo = errors.New("no changes to commit")

// steps returns the ordered step list.
func (w *Workflow) steps() []step {
	return []step{
		{name: StepCheckDirty, run: w.checkDirty},
		{name: StepPromptMessage, run: w.promptMessage},
		{name: StepPromptVersion, run: w.promptVersion},
		{name: StepBuild, run: w.build},
		{name: StepVerifyBuildOutput, run: w.verifyBuildOutput},
		{name: StepStageAndCommit, run: w.stageAndCommit},
		{name: StepBumpVersion, run: w.bumpVersion},
		{name: StepPushCommitAndTags, run: w.pushCommitAndTags},
	}
}

// Run executes the steps in order. It stops at the first failure and
// returns a *model.CLIError whose Code is the exit code to use; the same
// code is in Result.ExitCode. A clean tree returns a nil error.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	return w.run(ctx, w.steps())
}

func (w *Workflow) run(ctx context.Context, steps []step) (*Result, error) {
	res := &Result{Steps: make([]StepResult, len(steps))}
	for i, st := range steps {
		res.Steps[i] = StepResult{Name: st.name, Status: model.StepPending}
	}

	s := &session{}
	for i, st := range steps {
		err := ctx.Err()
		if err == nil {
			err = st.run(ctx, s)
		}

		if err == nil {
			res.Steps[i].Status = model.StepOK
			continue
		}

		if errors.Is(err, errNothingToDo) {
			res.Steps[i].Status = model.StepOK
			res.NoChanges = true
			skipRemaining(res, i+1)
			return res, nil
		}

		cliErr := toCLIError(ctx, st.name, err)
		res.Steps[i].Status = model.StepFailed
		res.Steps[i].Error = cliErr.Error()
		res.ExitCode = cliErr.Code
		skipRemaining(res, i+1)
		return res, cliErr
	}

	res.Version = w.currentVersion()
	res.Branch = s.branch
	return res, nil
}

func skipRemaining(res *Result, from int) {
	for j := from; j < len(res.Steps); j++ {
		res.Steps[j].Status = model.StepSkipped
	}
}

// toCLIError maps a step failure onto an exit code: the external
// command's own status when known, 130 on interrupt, otherwise 1.
func toCLIError(ctx context.Context, step string, err error) *model.CLIError {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	if ctx.Err() != nil {
		return model.WrapCLIError(model.ExitUserCancelled, "release interrupted", err)
	}

	code := model.ExitGeneralError
	if c := shell.ExitCode(err); c > 0 {
		code = model.ExitCode(c)
	}
	return model.WrapCLIError(code, fmt.Sprintf("%s failed", step), err)
}

func (w *Workflow) checkDirty(ctx context.Context, _ *session) error {
	changes, err := w.git.Changes(ctx)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(w.out, "No changes to commit.")
		return errNothingToDo
	}
	for _, c := range changes {
		w.opts.Logger.Debug("pending change", "code", c.Code, "path", c.Path)
	}
	w.opts.Logger.Debug("working tree dirty", "files", len(changes))
	return nil
}

func (w *Workflow) promptMessage(ctx context.Context, s *session) error {
	message, err := w.prompt.Ask(ctx, MessagePrompt)
	if err != nil {
		return err
	}
	if message == "" {
		return model.NewCLIError(model.ExitGeneralError, "Commit message is required.")
	}
	s.message = message
	return nil
}

func (w *Workflow) promptVersion(ctx context.Context, s *session) error {
	version, err := w.prompt.Ask(ctx, VersionPrompt)
	if err != nil {
		return err
	}
	s.version = version
	if s.version == "" {
		s.version = npm.PatchBump
	}
	return nil
}

func (w *Workflow) build(ctx context.Context, _ *session) error {
	fmt.Fprintln(w.out, "Starting build...")
	return w.npm.RunScript(ctx, w.opts.BuildScript)
}

func (w *Workflow) verifyBuildOutput(_ context.Context, _ *session) error {
	dir := w.opts.BuildDir
	if !filepath.IsAbs(dir) && w.opts.Dir != "" {
		dir = filepath.Join(w.opts.Dir, dir)
	}

	ready, err := BuildOutputReady(dir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to inspect build output", err)
	}
	if !ready {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("Build output missing. Expected %s/ to contain files.", filepath.ToSlash(w.opts.BuildDir)))
	}
	return nil
}

func (w *Workflow) stageAndCommit(ctx context.Context, s *session) error {
	fmt.Fprintln(w.out, "Staging changes...")
	if err := w.git.AddAll(ctx); err != nil {
		return err
	}

	fmt.Fprintln(w.out, "Committing changes...")
	return w.git.Commit(ctx, s.message)
}

func (w *Workflow) bumpVersion(ctx context.Context, s *session) error {
	if s.version == npm.PatchBump {
		fmt.Fprintln(w.out, "Bumping version (patch)...")
	} else {
		fmt.Fprintf(w.out, "Bumping version to %s...\n", s.version)
	}
	return w.npm.Version(ctx, s.version)
}

func (w *Workflow) pushCommitAndTags(ctx context.Context, s *session) error {
	// The branch name is informational; a detached HEAD still pushes.
	if branch, err := w.git.CurrentBranch(ctx); err == nil {
		s.branch = branch
		w.opts.Logger.Debug("pushing branch", "branch", branch, "remote", w.opts.Remote)
	}

	fmt.Fprintln(w.out, "Pushing commit and tags...")
	if err := w.git.Push(ctx, w.opts.Remote, "HEAD"); err != nil {
		return err
	}
	return w.git.PushTags(ctx, w.opts.Remote)
}

// currentVersion reads the bumped version; failures only cost the report.
func (w *Workflow) currentVersion() string {
	dir := w.opts.Dir
	if dir == "" {
		dir = "."
	}
	version, err := w.readVersion(dir)
	if err != nil {
		return ""
	}
	return version
}
