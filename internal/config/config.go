package config

// Config represents the full application configuration.
type Config struct {
	Git    GitConfig    `yaml:"git"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

// GitConfig locates the repository to operate on.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// FetchConfig tunes the shallow fetches performed during resolution.
type FetchConfig struct {
	// Depth is the default fetch depth for PR, commit and compare
	// resolution. Two keeps a merge commit's parents available.
	Depth int `yaml:"depth"`
	// DeepenDepth is the one-shot deepening applied when a merge base is
	// missing from shallow history.
	DeepenDepth int `yaml:"deepenDepth"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	// Color selects "auto", "always" or "never".
	Color string `yaml:"color"`
}
