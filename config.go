package docsite

import (
	"net/url"
	"time"
)

// Configuration defaults.
const (
	DefaultContentSelector = ".content"
	DefaultSidebarSelector = ".sidebar-nav"
	DefaultSearchBaseURL   = "https://search-api.swiftype.com"
	DefaultSearchTimeout   = 10 * time.Second
	DefaultServerAddr      = "localhost:4000"
	DefaultAuditWorkers    = 3
	DefaultAuditRate       = 1.0
	DefaultFetchTimeout    = 10 * time.Second
)

// Config is the site configuration shared by all commands.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Search SearchConfig `yaml:"search"`
	Server ServerConfig `yaml:"server"`
	Audit  AuditConfig  `yaml:"audit"`
}

// SiteConfig locates the page regions the indexer reads and writes.
type SiteConfig struct {
	ContentSelector string         `yaml:"content_selector"`
	SidebarSelector string         `yaml:"sidebar_selector"`
	Exclude         ExclusionRules `yaml:"exclude"`
}

// SearchConfig configures the hosted search service.
type SearchConfig struct {
	// EngineKey is the public key of the search engine.
	EngineKey string        `yaml:"engine_key"`
	BaseURL   string        `yaml:"base_url"`
	PerPage   int           `yaml:"per_page"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AuditConfig configures site audits.
type AuditConfig struct {
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	RenderJS          bool          `yaml:"render_js"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	c.Site.Exclude = DefaultExclusionRules()
	return c
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Exclusion rules are left as configured: an empty list means no exclusions.
func (c *Config) ApplyDefaults() {
	if c.Site.ContentSelector == "" {
		c.Site.ContentSelector = DefaultContentSelector
	}
	if c.Site.SidebarSelector == "" {
		c.Site.SidebarSelector = DefaultSidebarSelector
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = DefaultSearchBaseURL
	}
	if c.Search.PerPage == 0 {
		c.Search.PerPage = DefaultPerPage
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = DefaultSearchTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Audit.Concurrency == 0 {
		c.Audit.Concurrency = DefaultAuditWorkers
	}
	if c.Audit.RequestsPerSecond == 0 {
		c.Audit.RequestsPerSecond = DefaultAuditRate
	}
	if c.Audit.Timeout == 0 {
		c.Audit.Timeout = DefaultFetchTimeout
	}
}

// Validate returns an error if the configuration contains invalid fields.
// The search engine key is checked by commands that need it.
func (c *Config) Validate() error {
	if c.Search.PerPage < 0 {
		return Errorf(EINVALID, "search.per_page must not be negative")
	}
	if c.Search.Timeout < 0 || c.Audit.Timeout < 0 {
		return Errorf(EINVALID, "timeouts must not be negative")
	}
	u, err := url.Parse(c.Search.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "search.base_url must be an absolute http(s) URL, got %q", c.Search.BaseURL)
	}
	if c.Audit.Concurrency < 0 {
		return Errorf(EINVALID, "audit.concurrency must not be negative")
	}
	if c.Audit.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "audit.requests_per_second must not be negative")
	}
	return nil
}
