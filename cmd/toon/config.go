package main

import (
	"log/slog"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"
)

const EnvVarPrefix = "TOON_"

// config holds the settings of a run. Environment variables provide the
// defaults, command line flags override them.
type config struct {
	Indent          int     `env:"INDENT" envDefault:"2"`
	Delimiter       string  `env:"DELIMITER" envDefault:","`
	Color           string  `env:"COLOR" envDefault:"auto"`
	LogLevel        string  `env:"LOG_LEVEL" envDefault:"info"`
	PricePerMillion float64 `env:"PRICE_PER_MILLION" envDefault:"3"`
	QueriesPerDay   int     `env:"QUERIES_PER_DAY" envDefault:"1000"`

	Format       string
	StrictTables bool
	PrettyJSON   bool
	Question     string
	Files        []string
}

func loadConfig() (*config, error) {
	c := &config{}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvVarPrefix}); err != nil {
		return nil, trace.Wrap(err, "could not read configuration from env")
	}
	return c, nil
}

// delimiter maps the names accepted on the command line to the delimiter
// text.
func (c *config) delimiter() string {
	switch c.Delimiter {
	case "tab", `\t`:
		return "\t"
	case "pipe":
		return "|"
	case "comma", "":
		return ","
	}
	return c.Delimiter
}

func (c *config) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
