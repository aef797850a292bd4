package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validBackends  = []string{"docker", "compose", "local"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks config values for correctness.
// All violations are reported together.
func (c *Config) Validate() error {
	var errs []string

	// Agent
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent.max_iterations must be >= 1")
	}
	if c.Agent.TemplateDir == "" {
		errs = append(errs, "agent.template_dir must not be empty")
	}
	if c.Agent.WorkspaceDir == "" {
		errs = append(errs, "agent.workspace_dir must not be empty")
	}

	// Provider
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.APIKeyEnv == "" {
		errs = append(errs, "provider.api_key_env must not be empty")
	}

	// Tools
	if c.Tools.ReadFileMaxChars < 1 {
		errs = append(errs, "tools.read_file_max_chars must be >= 1")
	}
	if c.Tools.MaxWriteSize < 1 {
		errs = append(errs, "tools.max_write_size must be >= 1")
	}
	if c.Tools.MaxCommandOutputSize < 1 {
		errs = append(errs, "tools.max_command_output_size must be >= 1")
	}

	// Sandbox
	if !slices.Contains(validBackends, c.Sandbox.Backend) {
		errs = append(errs, fmt.Sprintf("sandbox.backend must be one of %s", strings.Join(validBackends, ", ")))
	}
	if c.Sandbox.TimeoutSeconds < 1 {
		errs = append(errs, "sandbox.timeout_seconds must be >= 1")
	}
	if c.Sandbox.GracefulShutdownMs < 1 {
		errs = append(errs, "sandbox.graceful_shutdown_ms must be >= 1")
	}
	if c.Sandbox.Interpreter == "" {
		errs = append(errs, "sandbox.interpreter must not be empty")
	}
	if len(c.Sandbox.AllowedExtensions) == 0 {
		errs = append(errs, "sandbox.allowed_extensions must not be empty")
	}
	for _, ext := range c.Sandbox.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("sandbox.allowed_extensions entry %q must start with '.'", ext))
		}
	}

	// Sandbox - Docker
	switch c.Sandbox.Backend {
	case "docker":
		if c.Sandbox.Image == "" {
			errs = append(errs, "sandbox.image must not be empty for the docker backend")
		}
	case "compose":
		if c.Sandbox.ComposeService == "" {
			errs = append(errs, "sandbox.compose_service must not be empty for the compose backend")
		}
	}
	if c.Sandbox.MemoryMB < 0 {
		errs = append(errs, "sandbox.memory_mb must be >= 0")
	}
	if c.Sandbox.CPUs < 0 {
		errs = append(errs, "sandbox.cpus must be >= 0")
	}
	if c.Sandbox.PidsLimit < 0 {
		errs = append(errs, "sandbox.pids_limit must be >= 0")
	}
	if c.Sandbox.DockerRetryAttempts < 1 {
		errs = append(errs, "sandbox.docker_retry_attempts must be >= 1")
	}
	if c.Sandbox.DockerRetryIntervalMs < 1 {
		errs = append(errs, "sandbox.docker_retry_interval_ms must be >= 1")
	}

	// Log
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %s", strings.Join(validLogLevels, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}
	return nil
}
