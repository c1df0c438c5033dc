// Package hugo wraps the Hugo static site generator binary.
//
// [Builder] validates the site layout, runs the build in the site directory with its
// output captured, and reports statistics about the generated destination tree.
// A failed build surfaces as a [*BuildError] carrying the exit code and both output
// streams; it matches [shared.ErrBuildFailed].
package hugo
