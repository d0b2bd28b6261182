package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	"github.com/m-mizutani/orgwatch/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Monitor holds settings of the monitoring pass
type Monitor struct {
	Organization      string
	ConfigFile        string
	HighlightKeywords []string
	NotesLimit        int
	Concurrency       int
}

// monitorFile is the layout of the optional TOML configuration file
type monitorFile struct {
	Organization      string   `toml:"organization"`
	HighlightKeywords []string `toml:"highlight_keywords"`
	NotesLimit        int      `toml:"notes_limit"`
	Concurrency       int      `toml:"concurrency"`
}

// Flags returns CLI flags for monitor configuration
func (c *Monitor) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "org",
			Usage:       "GitHub organization to watch",
			Destination: &c.Organization,
			Sources:     cli.EnvVars("ORGWATCH_ORG"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML file with monitor settings; flags take precedence",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("ORGWATCH_CONFIG"),
		},
		&cli.StringSliceFlag{
			Name:        "highlight",
			Usage:       "Keyword marking a release or tag as special (case-insensitive, repeatable)",
			Destination: &c.HighlightKeywords,
			Sources:     cli.EnvVars("ORGWATCH_HIGHLIGHT"),
		},
		&cli.IntFlag{
			Name:        "notes-limit",
			Usage:       "Maximum characters of release notes in a notification (default 500)",
			Destination: &c.NotesLimit,
			Sources:     cli.EnvVars("ORGWATCH_NOTES_LIMIT"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of repositories fetched in parallel (default 1)",
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("ORGWATCH_CONCURRENCY"),
		},
	}
}

// Load merges the TOML file, if any, into unset fields and validates the result
func (c *Monitor) Load() error {
	if c.ConfigFile != "" {
		raw, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.T(types.ErrTagConfig), goerr.V("path", c.ConfigFile))
		}

		var file monitorFile
		if err := toml.Unmarshal(raw, &file); err != nil {
			return goerr.Wrap(err, "failed to parse config file", goerr.T(types.ErrTagConfig), goerr.V("path", c.ConfigFile))
		}

		if c.Organization == "" {
			c.Organization = file.Organization
		}
		if len(c.HighlightKeywords) == 0 {
			c.HighlightKeywords = file.HighlightKeywords
		}
		if c.NotesLimit == 0 {
			c.NotesLimit = file.NotesLimit
		}
		if c.Concurrency == 0 {
			c.Concurrency = file.Concurrency
		}
	}

	if c.Organization == "" {
		return goerr.New("organization is required (--org or config file)", goerr.T(types.ErrTagConfig))
	}
	if c.NotesLimit < 0 || c.Concurrency < 0 {
		return goerr.New("notes limit and concurrency must not be negative",
			goerr.T(types.ErrTagConfig),
			goerr.V("notes_limit", c.NotesLimit),
			goerr.V("concurrency", c.Concurrency),
		)
	}

	return nil
}

// Options converts the configuration into monitor options
func (c *Monitor) Options() []usecase.MonitorOption {
	return []usecase.MonitorOption{
		usecase.WithOrganization(c.Organization),
		usecase.WithHighlightKeywords(c.HighlightKeywords),
		usecase.WithNotesLimit(c.NotesLimit),
		usecase.WithConcurrency(c.Concurrency),
	}
}
