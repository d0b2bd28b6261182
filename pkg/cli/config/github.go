package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	githubinfra "github.com/m-mizutani/orgwatch/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	BaseURL        string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	Timeout        time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub REST API root, for GitHub Enterprise (e.g. https://ghe.example.com/api/v3/)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key-file",
			Usage:       "Path to GitHub App private key file",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_APP_PRIVATE_KEY_FILE"),
		},
		&cli.DurationFlag{
			Name:        "github-timeout",
			Usage:       "Timeout of each GitHub API request",
			Value:       30 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_TIMEOUT"),
		},
	}
}

// NewClient builds the GitHub client for org from the configuration
func (c *GitHub) NewClient(org string) (interfaces.GitHubClient, error) {
	opts := []githubinfra.Option{
		githubinfra.WithTimeout(c.Timeout),
	}
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	if c.AppID != 0 {
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, githubinfra.WithAppAuth(c.AppID, c.InstallationID, key))
	}

	return githubinfra.NewClient(org, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	switch {
	case c.PrivateKey != "" && c.PrivateKeyFile != "":
		return nil, goerr.New("specify either private key or private key file, not both", goerr.T(types.ErrTagConfig))
	case c.PrivateKey != "":
		return []byte(c.PrivateKey), nil
	case c.PrivateKeyFile != "":
		key, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key file",
				goerr.T(types.ErrTagConfig),
				goerr.V("path", c.PrivateKeyFile),
			)
		}
		return key, nil
	default:
		return nil, goerr.New("GitHub App private key is required when app ID is set", goerr.T(types.ErrTagConfig))
	}
}
