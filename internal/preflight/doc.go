// Package preflight provides readiness checks for the filesystem paths and
// locks the session store depends on.
//
// The CLI "cuetrack config validate" command runs RunAll and prints each
// result; individual checks are exported for callers that only need one.
package preflight
