// Package version exposes the fmtool build identity.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/fmtool/version.Version=1.0.0" ./cmd/fmtool
//
// When they are unset, the VCS stamps recorded by the Go toolchain are used.
package version
