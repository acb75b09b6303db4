package model

// Config is the on-disk configuration for the vault and its collaborators.
type Config struct {
	VaultDir string `yaml:"vault_dir"`
	Editor   string `yaml:"editor"`
	Folders  struct {
		Tasks          string `yaml:"tasks"`
		CompletedTasks string `yaml:"completed_tasks"`
		Archive        string `yaml:"archive"`
	} `yaml:"folders"`
	RetentionDays int `yaml:"retention_days"`
	Git           struct {
		Enable bool   `yaml:"enable"`
		Remote string `yaml:"remote"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Sync struct {
		Enable     bool   `yaml:"enable"`
		Bucket     string `yaml:"bucket"`
		AWSProfile string `yaml:"aws_profile"`
		AWSRegion  string `yaml:"aws_region"`
	} `yaml:"sync"`
}

func DefaultConfig() Config {
	config := Config{
		VaultDir:      "~/TaskVault",
		Editor:        "vim",
		RetentionDays: 14,
	}
	config.Folders.Tasks = "tasks"
	config.Folders.CompletedTasks = "completed_tasks"
	config.Folders.Archive = "archive"
	config.Git.Branch = "main"
	return config
}
