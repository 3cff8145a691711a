package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/git"
	"github.com/shinji-kodama/vertexctl/internal/model"
	"github.com/shinji-kodama/vertexctl/internal/npm"
	"github.com/shinji-kodama/vertexctl/internal/release"
	"github.com/shinji-kodama/vertexctl/internal/shell"
)

// releaseFlags holds the flags specific to the release command.
type releaseFlags struct {
	dir         string
	buildScript string
	buildDir    string
	remote      string
}

// NewReleaseCommand creates the "release" subcommand.
//
// The command is interactive: it asks for a commit message and a version,
// then builds, commits, bumps the package version and pushes. Every external
// command is echoed before it runs and its output is streamed.
func NewReleaseCommand() *cobra.Command {
	flags := &releaseFlags{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Build, commit, version-bump and push the dashboard",
		Long: `Release the front-end project in the current directory.

Steps:
  1. Stop with "No changes to commit." when the working tree is clean
  2. Ask for a commit message (required)
  3. Ask for a version (blank means a patch bump)
  4. npm run build, then require a non-empty build directory
  5. git add -A and git commit
  6. npm version <version|patch>
  7. git push <remote> HEAD and git push <remote> --tags

A failing command stops the release with that command's exit code.
Nothing is rolled back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Project directory")
	cmd.Flags().StringVar(&flags.buildScript, "script", "build", "npm script that produces the build")
	cmd.Flags().StringVar(&flags.buildDir, "build-dir", "", "Build output directory (default from config, else dist)")
	cmd.Flags().StringVar(&flags.remote, "remote", "", "Git remote to push to (default from config, else origin)")

	return cmd
}

func runRelease(cmd *cobra.Command, flags *releaseFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(flags.dir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve project directory", err)
	}

	opts := release.Options{
		Dir:         dir,
		BuildScript: flags.buildScript,
		BuildDir:    cfg.Release.BuildDir,
		Remote:      cfg.Release.Remote,
		Logger:      newLogger(),
	}
	if flags.buildDir != "" {
		opts.BuildDir = flags.buildDir
	}
	if flags.remote != "" {
		opts.Remote = flags.remote
	}
	VerboseLog("Releasing %s (build dir %s, remote %s)", opts.Dir, opts.BuildDir, opts.Remote)

	// In JSON mode stdout carries only the result document; prompts,
	// command echoes and child output go to stderr.
	out := cmd.OutOrStdout()
	progress := out
	if IsJSONOutput() {
		progress = cmd.ErrOrStderr()
	}

	runner := &shell.Runner{
		Dir:    dir,
		Stdin:  cmd.InOrStdin(),
		Stdout: progress,
		Stderr: cmd.ErrOrStderr(),
	}

	wf := release.New(
		git.NewRepo(dir, runner),
		npm.New(runner),
		release.NewLinePrompter(cmd.InOrStdin(), progress),
		progress,
		opts,
	)

	result, runErr := wf.Run(cmd.Context())

	if IsJSONOutput() {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else if runErr == nil && result.Version != "" {
		fmt.Fprintf(out, "Released %s\n", result.Version)
	}

	return runErr
}
