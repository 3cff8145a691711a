// Package release implements the interactive release workflow for the
// dashboard repository.
//
// The workflow is an ordered list of fallible steps:
//
//	CheckDirty → PromptMessage → PromptVersion → Build →
//	VerifyBuildOutput → StageAndCommit → BumpVersion → PushCommitAndTags
//
// A single runner executes them in order. The first failing step stops the
// workflow and its exit code becomes the process exit code; a clean working
// tree stops it early with success. There is no rollback: a failure after
// the commit leaves the local commit (and possibly the version tag) unpushed.
package release
