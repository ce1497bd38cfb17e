//go:build mage

// Package main provides build targets for the realdesk project using Mage.
//
// Usage:
//
//	mage build      Compile the realdesk binary to bin/
//	mage test       Run all tests
//	mage cover      Run tests and write coverage.out
//	mage lint       Run golangci-lint
//	mage serve      Build and start the API on an in-memory store
//	mage clean      Remove build artifacts
//	mage install    Install realdesk to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "realdesk"
	binaryDir  = "bin"
	cmdDir     = "./cmd/realdesk"
	coverFile  = "coverage.out"
)

// Build compiles the realdesk binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every test with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs the tests and prints per-function coverage.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverFile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve builds the binary and starts the API on a seeded in-memory store.
func Serve() error {
	mg.Deps(Build)
	env := map[string]string{"REALDESK_STORE_SEED": "true"}
	return sh.RunWithV(env, filepath.Join(binaryDir, binaryName), "--backend", "memory", "--verbose", "serve")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(coverFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
