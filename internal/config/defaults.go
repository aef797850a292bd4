package config

// DefaultSystemPrompt instructs the model about the operations it may request.
const DefaultSystemPrompt = `You are a helpful AI coding agent.

When a user asks a question or makes a request, make a function call plan. You can perform the following operations:

- List files and directories
- Read file contents
- Execute Python files with optional arguments
- Write or overwrite files

All paths you provide should be relative to the working directory. You do not need to specify the working directory in your function calls as it is automatically injected for security reasons.`

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Provider ProviderConfig `json:"provider"`
	Tools    ToolsConfig    `json:"tools"`
	Sandbox  SandboxConfig  `json:"sandbox"`
	Log      LogConfig      `json:"log"`
}

type AgentConfig struct {
	MaxIterations int    `json:"max_iterations"` // Default: 20
	TemplateDir   string `json:"template_dir"`   // Default: "calculator"
	WorkspaceDir  string `json:"workspace_dir"`  // Default: "sandbox_workspace"

	// ExecRoot is the root run_program resolves and executes against.
	// Empty means the template directory itself rather than the workspace copy.
	ExecRoot string `json:"exec_root"`

	// CopyVerbatim copies the template including .git and gitignored paths.
	CopyVerbatim bool `json:"copy_verbatim"` // Default: false

	SystemPrompt        string `json:"system_prompt"`
	ApproveScriptWrites bool   `json:"approve_script_writes"` // Default: true
}

type ProviderConfig struct {
	Model     string `json:"model"`       // Default: "gemini-2.0-flash-001"
	APIKeyEnv string `json:"api_key_env"` // Default: "GEMINI_API_KEY"
}

type ToolsConfig struct {
	ReadFileMaxChars     int   `json:"read_file_max_chars"`     // Default: 10000
	MaxWriteSize         int64 `json:"max_write_size"`          // Default: 10MB
	MaxCommandOutputSize int64 `json:"max_command_output_size"` // Default: 1MB
}

type SandboxConfig struct {
	Backend            string   `json:"backend"`              // docker | compose | local
	TimeoutSeconds     int      `json:"timeout_seconds"`      // Default: 30
	GracefulShutdownMs int      `json:"graceful_shutdown_ms"` // Default: 2000
	Interpreter        string   `json:"interpreter"`          // Default: "python"
	AllowedExtensions  []string `json:"allowed_extensions"`   // Default: [".py"]

	// Docker
	Image                 string  `json:"image"`
	ComposeService        string  `json:"compose_service"`
	MemoryMB              int     `json:"memory_mb"`
	CPUs                  float64 `json:"cpus"`
	PidsLimit             int     `json:"pids_limit"`
	Network               string  `json:"network"`
	MountReadOnly         bool    `json:"mount_read_only"`
	DockerRetryAttempts   int     `json:"docker_retry_attempts"`    // Default: 10
	DockerRetryIntervalMs int     `json:"docker_retry_interval_ms"` // Default: 1000
}

type LogConfig struct {
	Level           string `json:"level"`            // debug | info | warn | error
	File            string `json:"file"`             // optional JSON log file
	MetricsTextfile string `json:"metrics_textfile"` // optional node-exporter textfile
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxIterations:       20,
			TemplateDir:         "calculator",
			WorkspaceDir:        "sandbox_workspace",
			SystemPrompt:        DefaultSystemPrompt,
			ApproveScriptWrites: true,
		},
		Provider: ProviderConfig{
			Model:     "gemini-2.0-flash-001",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Tools: ToolsConfig{
			ReadFileMaxChars:     10000,
			MaxWriteSize:         10 * 1024 * 1024,
			MaxCommandOutputSize: 1024 * 1024,
		},
		Sandbox: SandboxConfig{
			Backend:               "docker",
			TimeoutSeconds:        30,
			GracefulShutdownMs:    2000,
			Interpreter:           "python",
			AllowedExtensions:     []string{".py"},
			Image:                 "python:3.12-slim",
			ComposeService:        "sandbox_executor",
			MemoryMB:              256,
			CPUs:                  1,
			PidsLimit:             64,
			Network:               "none",
			MountReadOnly:         true,
			DockerRetryAttempts:   10,
			DockerRetryIntervalMs: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ExecRootDir returns the directory run_program executes against.
func (c *Config) ExecRootDir() string {
	if c.Agent.ExecRoot != "" {
		return c.Agent.ExecRoot
	}
	return c.Agent.TemplateDir
}
