// Package testsupport holds shared helpers for package tests: temp-dir backed
// configs, session stores with cleanup, and fixture files.
package testsupport
