//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// ======================================
// SETUP
// ======================================

type Setup mg.Namespace

func (Setup) Go() error {
	fmt.Println("Setting up Go environment...")

	fmt.Println("Checking Go version... (go version)")
	if err := goVersion(); err != nil {
		return err
	}

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println("Installing golangci-lint...")
		if err := sh.RunV("go", "install", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest"); err != nil {
			return err
		}
	}

	fmt.Println("Go environment setup complete.")

	return nil
}

func goVersion() error {
	out, err := exec.Command("go", "version").Output()
	if err != nil {
		return err
	}

	required := struct {
		major int
		minor int
	}{
		major: 1,
		minor: 23,
	}

	re := regexp.MustCompile(`go version go([0-9]+)\.([0-9]+)`)
	matches := re.FindStringSubmatch(string(out))
	if len(matches) < 3 {
		return fmt.Errorf("failed to parse Go version from: %s", out)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])

	fmt.Printf("go version: %d.%d (local) | %d.%d (required)\n", major, minor, required.major, required.minor)
	if major < required.major || (major == required.major && minor < required.minor) {
		return fmt.Errorf("go >= %d.%d required", required.major, required.minor)
	}

	return nil
}

// ======================================
// TESTING
// ======================================

type Test mg.Namespace

// All runs all tests in the project
func (Test) All() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Race runs all tests with the race detector
func (Test) Race() error {
	fmt.Println("Running tests with race detector...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage runs tests with coverage reporting
func (Test) Coverage() error {
	fmt.Println("Running tests with coverage...")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// ======================================
// ECHO
// ======================================

type Echo mg.Namespace

// Serve runs the echo server on 127.0.0.1:4433 with metrics on 127.0.0.1:9090
func (Echo) Serve() error {
	fmt.Println("Starting echo server...")
	return sh.RunV("go", "run", "./cmd/quicecho", "serve",
		"--metrics-addr", "127.0.0.1:9090",
		"--log-level", "debug",
	)
}

// Dial sends a message to the echo server on 127.0.0.1:4433
func (Echo) Dial() error {
	fmt.Println("Dialing echo server...")
	return sh.RunV("go", "run", "./cmd/quicecho", "dial",
		"--insecure",
		"--datagram",
	)
}

// WebTransport runs the echo server over WebTransport
func (Echo) WebTransport() error {
	fmt.Println("Starting WebTransport echo server...")
	return sh.RunV("go", "run", "./cmd/quicecho", "serve",
		"--transport", "webtransport",
		"--log-level", "debug",
	)
}

// ======================================
// DEVELOPMENT UTILITIES
// ======================================

// Lint runs the linter (golangci-lint)
func Lint() error {
	fmt.Println("Running linter...")
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		return fmt.Errorf("golangci-lint not found. Please install it first:\n  go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest")
	}
	return sh.RunV("golangci-lint", "run")
}

// Fmt formats Go source code
func Fmt() error {
	fmt.Println("Formatting go code...")
	return sh.RunV("go", "fmt", "./...")
}

// Build builds the project
func Build() error {
	fmt.Println("Building project...")
	if err := sh.RunV("go", "build", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", "bin/quicecho", "./cmd/quicecho")
}

// Clean removes generated files
func Clean() error {
	fmt.Println("Cleaning up generated files...")
	for _, path := range []string{"./bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Help displays available commands (default target)
func Help() {
	fmt.Println("Available Mage commands:")
	fmt.Println("  mage test:all       - Run all tests")
	fmt.Println("  mage test:race      - Run all tests with the race detector")
	fmt.Println("  mage test:coverage  - Run tests with coverage")
	fmt.Println("  mage echo:serve     - Run the echo server")
	fmt.Println("  mage echo:dial      - Dial the echo server")
	fmt.Println("  mage echo:webtransport - Run the echo server over WebTransport")
	fmt.Println("  mage lint           - Run golangci-lint")
	fmt.Println("  mage fmt            - Format the code")
	fmt.Println("  mage build          - Build the project")
	fmt.Println("  mage clean          - Clean up generated files")
	fmt.Println("  mage help           - Show this help message")
	fmt.Println("")
	fmt.Println("You can also run 'mage -l' to list all available targets.")
}

// Default target - displays help when no target is specified
var Default = Help
