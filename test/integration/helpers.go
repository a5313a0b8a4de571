//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIURL      string
	AdminAPIKey string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIURL:      os.Getenv("GHOST_API_URL"),
		AdminAPIKey: os.Getenv("GHOST_ADMIN_API_KEY"),
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("GHOSTCTL_VERBOSE") == "true",
	}
}

func getBinaryPath() string {
	if path := os.Getenv("GHOSTCTL_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../ghostctl", "./ghostctl", "../ghostctl"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "ghostctl"
}

// SkipIfMissingConfig skips the test unless a site and key are configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIURL == "" || config.AdminAPIKey == "" {
		t.Skip("GHOST_API_URL or GHOST_ADMIN_API_KEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("ghostctl binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the ghostctl binary against the configured site.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: t.TempDir() + "/config.toml",
		t:          t,
	}
}

// Run executes ghostctl with an isolated config file and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes ghostctl with stdin input.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(),
		"GHOST_API_URL="+runner.config.APIURL,
		"GHOST_ADMIN_API_KEY="+runner.config.AdminAPIKey,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: ghostctl %s", strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes ghostctl with JSON output and decodes the result into target.
func (runner *CommandRunner) RunJSON(target interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), target)
}

// GenerateTestName creates a unique resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupResource attempts to delete a test resource.
func (runner *CommandRunner) CleanupResource(resourceType, id string) {
	if id == "" {
		return
	}

	stdout, stderr, err := runner.Run(resourceType, "delete", id, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, id, stdout, stderr)
	}
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}
