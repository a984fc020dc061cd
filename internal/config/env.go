package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Credential environment variables
const (
	EnvJiraEmail    = "JIRA_EMAIL"
	EnvJiraAPIToken = "JIRA_API_TOKEN"
	EnvGitHubToken  = "GITHUB_TOKEN"
	EnvFilePath     = "ENV_FILE_PATH"
)

// Credentials are the secrets read from the environment at startup
type Credentials struct {
	JiraEmail    string
	JiraAPIToken string
	GitHubToken  string
}

// LoadCredentials seeds the environment from a .env file, if one exists,
// and reads the credentials. Variables already set are not overridden.
// ENV_FILE_PATH takes precedence over envPath.
func LoadCredentials(envPath string, logger *zap.Logger) Credentials {
	if p := os.Getenv(EnvFilePath); p != "" {
		envPath = p
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			logger.Debug("no env file loaded, using process environment",
				zap.String("path", envPath),
				zap.Error(err),
			)
		}
	}

	return Credentials{
		JiraEmail:    os.Getenv(EnvJiraEmail),
		JiraAPIToken: os.Getenv(EnvJiraAPIToken),
		GitHubToken:  os.Getenv(EnvGitHubToken),
	}
}
