package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultURLTemplate = "http://thomas.loc.gov/cgi-bin/bdquery/D?d{session}:{number}:./list/bss/d{session}{list}.lst:@@@L&summ2=m&"
	DefaultUserAgent   = "Mozilla/5.0 (compatible; CosponsorSpider/1.0)"
)

type SelectorConfig struct {
	Number     string `yaml:"number"`
	Title      string `yaml:"title"`
	Sponsor    string `yaml:"sponsor"`
	Cosponsors string `yaml:"cosponsors"`
	Congress   string `yaml:"congress"`
	IDAttr     string `yaml:"id_attr"`
}

type SourceConfig struct {
	Chamber       string         `yaml:"chamber"`
	URLTemplate   string         `yaml:"url_template"`
	RespectRobots bool           `yaml:"respect_robots"`
	Selectors     SelectorConfig `yaml:"selectors"`
}

type DBConfig struct {
	Driver      string `yaml:"driver"` // file or mongo
	Dir         string `yaml:"dir"`
	Connection  string `yaml:"connection"`
	Database    string `yaml:"database"`
	Collections struct {
		Bills       string `yaml:"bills"`
		Politicians string `yaml:"politicians"`
	} `yaml:"collections"`
}

type LogicConfig struct {
	Engine               string `yaml:"engine"` // http or colly
	DelayMS              int    `yaml:"delay_ms"`
	TimeoutSec           int    `yaml:"timeout_sec"`
	MaxConcurrentWorkers int    `yaml:"max_concurrent_workers"`
	UserAgent            string `yaml:"user_agent"`
	FailFast             bool   `yaml:"fail_fast"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type SpiderConfig struct {
	Session  int          `yaml:"session"`
	MaxBills int          `yaml:"max_bills"`
	Source   SourceConfig `yaml:"source"`
	DB       DBConfig     `yaml:"db"`
	Logic    LogicConfig  `yaml:"logic"`
	Output   OutputConfig `yaml:"output"`
	Log      LogConfig    `yaml:"log"`
}

// LoadConfig reads the YAML file at path. An empty path yields the defaults.
// Values from the environment (and a .env file, when present) win over the file.
func LoadConfig(path string) (*SpiderConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg SpiderConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg = cfg.WithDefaults()
	return &cfg, cfg.Validate()
}

func (c *SpiderConfig) applyEnv() {
	if v := os.Getenv("COSPONSOR_MONGO_URI"); v != "" {
		c.DB.Connection = v
	}
	if v := os.Getenv("COSPONSOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COSPONSOR_USER_AGENT"); v != "" {
		c.Logic.UserAgent = v
	}
}

// WithDefaults returns a copy with zero-value fields filled in.
func (c SpiderConfig) WithDefaults() SpiderConfig {
	if c.Source.Chamber == "" {
		c.Source.Chamber = "senate"
	}
	if c.Source.URLTemplate == "" {
		c.Source.URLTemplate = DefaultURLTemplate
	}
	s := &c.Source.Selectors
	if s.Number == "" {
		s.Number = "#content .bill-number"
	}
	if s.Title == "" {
		s.Title = "#content .bill-title"
	}
	if s.Sponsor == "" {
		s.Sponsor = "#content .bill-sponsor"
	}
	if s.Cosponsors == "" {
		s.Cosponsors = "#content .bill-cosponsors li"
	}
	if s.Congress == "" {
		s.Congress = "#content .bill-congress"
	}
	if s.IDAttr == "" {
		s.IDAttr = "data-bioguide-id"
	}

	if c.DB.Driver == "" {
		c.DB.Driver = "file"
	}
	if c.DB.Dir == "" {
		c.DB.Dir = "snapshots"
	}
	if c.DB.Database == "" {
		c.DB.Database = "cosponsors"
	}
	if c.DB.Collections.Bills == "" {
		c.DB.Collections.Bills = "bills"
	}
	if c.DB.Collections.Politicians == "" {
		c.DB.Collections.Politicians = "politicians"
	}

	if c.Logic.Engine == "" {
		c.Logic.Engine = "http"
	}
	if c.Logic.TimeoutSec <= 0 {
		c.Logic.TimeoutSec = 30
	}
	if c.Logic.MaxConcurrentWorkers <= 0 {
		c.Logic.MaxConcurrentWorkers = 1
	}
	if c.Logic.UserAgent == "" {
		c.Logic.UserAgent = DefaultUserAgent
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.Format == "" {
		c.Output.Format = "matlab"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return c
}

func (c *SpiderConfig) Validate() error {
	switch strings.ToLower(c.Logic.Engine) {
	case "http", "colly":
	default:
		return fmt.Errorf("unknown fetch engine %q", c.Logic.Engine)
	}
	switch strings.ToLower(c.DB.Driver) {
	case "file", "mongo":
	default:
		return fmt.Errorf("unknown snapshot driver %q", c.DB.Driver)
	}
	if c.Session < 0 || c.MaxBills < 0 {
		return fmt.Errorf("session and max_bills must not be negative")
	}
	return nil
}
