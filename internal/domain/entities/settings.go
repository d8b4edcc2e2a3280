package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// requiredKeys are read from the environment with no defaults.
var requiredKeys = []string{ //nolint:gochecknoglobals // fixed key list
	"SMTP_SERVER",
	"SMTP_PORT",
	"SENDER",
	"DESTINATION",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"GITHUB_TOKEN",
	"GPG_KEY",
	"GPG_FINGERPRINT",
	"GPG_KEY_ID",
	"REPO_URL",
	"GIT_NAME",
	"GIT_EMAIL",
	"COMMIT_WEB_URL",
}

// SMTPSettings configures the mail transfer agent session.
type SMTPSettings struct {
	Server      string
	Port        int
	Username    string
	Password    string
	Sender      string
	Destination string
	Timeout     time.Duration
}

// SigningSettings holds the OpenPGP key material used to sign the commit.
type SigningSettings struct {
	ArmoredKey  string
	Fingerprint string
	KeyID       string
	Passphrase  string
}

// RepoSettings configures the package-script repository remote.
type RepoSettings struct {
	URL        string
	Username   string
	Token      string
	SSHKeyPath string
	Author     Identity
	Timeout    time.Duration
}

// Settings is the immutable configuration of a run, built once at process start.
type Settings struct {
	SMTP         SMTPSettings
	Signing      SigningSettings
	Repo         RepoSettings
	GitHubToken  string
	GitLabToken  string // only needed for targets tracked on GitLab
	CommitWebURL string
	HTTPTimeout  time.Duration
}

// NewSettings reads the run configuration from the process environment. When envFile
// is not empty, it is read as a dotenv file; variables already set in the environment
// take precedence over it.
func NewSettings(envFile string) (*Settings, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("REPO_USERNAME", "oauth2")
	v.SetDefault("HTTP_TIMEOUT", "60s")
	v.SetDefault("SMTP_TIMEOUT", "30s")
	v.SetDefault("GIT_TIMEOUT", "5m")

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read env file %q: %v", ErrConfiguration, envFile, err)
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required variables: %s", ErrConfiguration, strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(v.GetString("SMTP_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: SMTP_PORT %q is not a valid port", ErrConfiguration, v.GetString("SMTP_PORT"))
	}

	timeouts := make(map[string]time.Duration, 3) //nolint:mnd // three timeouts
	for _, key := range []string{"HTTP_TIMEOUT", "SMTP_TIMEOUT", "GIT_TIMEOUT"} {
		d, parseErr := time.ParseDuration(v.GetString(key))
		if parseErr != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s %q is not a positive duration", ErrConfiguration, key, v.GetString(key))
		}
		timeouts[key] = d
	}

	return &Settings{
		SMTP: SMTPSettings{
			Server:      v.GetString("SMTP_SERVER"),
			Port:        port,
			Username:    v.GetString("SMTP_USERNAME"),
			Password:    v.GetString("SMTP_PASSWORD"),
			Sender:      v.GetString("SENDER"),
			Destination: v.GetString("DESTINATION"),
			Timeout:     timeouts["SMTP_TIMEOUT"],
		},
		Signing: SigningSettings{
			ArmoredKey:  v.GetString("GPG_KEY"),
			Fingerprint: v.GetString("GPG_FINGERPRINT"),
			KeyID:       v.GetString("GPG_KEY_ID"),
			Passphrase:  v.GetString("GPG_PASSPHRASE"),
		},
		Repo: RepoSettings{
			URL:        v.GetString("REPO_URL"),
			Username:   v.GetString("REPO_USERNAME"),
			Token:      v.GetString("REPO_TOKEN"),
			SSHKeyPath: v.GetString("SSH_KEY_PATH"),
			Author: Identity{
				Name:  v.GetString("GIT_NAME"),
				Email: v.GetString("GIT_EMAIL"),
			},
			Timeout: timeouts["GIT_TIMEOUT"],
		},
		GitHubToken:  v.GetString("GITHUB_TOKEN"),
		GitLabToken:  v.GetString("GITLAB_TOKEN"),
		CommitWebURL: v.GetString("COMMIT_WEB_URL"),
		HTTPTimeout:  timeouts["HTTP_TIMEOUT"],
	}, nil
}

// ReleaseToken returns the API token for a release provider type.
func (s *Settings) ReleaseToken(provider string) string {
	if provider == "gitlab" {
		return s.GitLabToken
	}
	return s.GitHubToken
}
