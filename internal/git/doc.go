// Package git provides the working-tree operations the release workflow
// needs: status, staging, committing and pushing.
//
// All Git operations are performed by invoking the git binary through a
// shell.Executor rather than using a Git library like go-git. This keeps
// hooks, credential helpers and signing configuration behaving exactly as
// they do in the user's terminal, which matters for a command that pushes.
package git
