package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Marketplace struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"marketplace"`

	Scraper struct {
		LoginURL      string `yaml:"login_url" default:"https://www.upwork.com/ab/account-security/login"`
		SearchBaseURL string `yaml:"search_base_url" default:"https://www.upwork.com/nx/search/jobs/"`
		UserAgent     string `yaml:"user_agent"`
		HeadlessMode  bool   `yaml:"headless_mode" default:"false"`

		NavigationTimeout   time.Duration `yaml:"navigation_timeout" default:"30s"`
		SelectorTimeout     time.Duration `yaml:"selector_timeout" default:"10s"`
		LoginConfirmTimeout time.Duration `yaml:"login_confirm_timeout" default:"10s"`
		CaptchaPollInterval time.Duration `yaml:"captcha_poll_interval" default:"2s"`
		CaptchaWaitTimeout  time.Duration `yaml:"captcha_wait_timeout" default:"60s"`

		// SettleDelay and PageDelay are deliberate rate limiting against
		// the target site, not functional waits.
		SettleDelay time.Duration `yaml:"settle_delay" default:"8s"`
		PageDelay   time.Duration `yaml:"page_delay" default:"5s"`

		DefaultPages int `yaml:"default_pages" default:"3"`
	} `yaml:"scraper"`

	Generator struct {
		Command string        `yaml:"command" default:"python3"`
		Script  string        `yaml:"script" default:"scripts/job_proposal.py"`
		Timeout time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"generator"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Auth struct {
		// Tokens maps bearer tokens to opaque caller identifiers.
		// Token issuance and rotation live outside this service.
		Tokens map[string]string `yaml:"tokens"`
	} `yaml:"auth"`

	Export struct {
		FilePath string `yaml:"file_path" default:"data/upwork_jobs.csv"`
	} `yaml:"export"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Scraper.LoginURL = "https://www.upwork.com/ab/account-security/login"
	config.Scraper.SearchBaseURL = "https://www.upwork.com/nx/search/jobs/"
	config.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// The login flow needs a visible browser so a human can resolve
	// CAPTCHA challenges.
	config.Scraper.HeadlessMode = false
	config.Scraper.NavigationTimeout = 30 * time.Second
	config.Scraper.SelectorTimeout = 10 * time.Second
	config.Scraper.LoginConfirmTimeout = 10 * time.Second
	config.Scraper.CaptchaPollInterval = 2 * time.Second
	config.Scraper.CaptchaWaitTimeout = 60 * time.Second
	config.Scraper.SettleDelay = 8 * time.Second
	config.Scraper.PageDelay = 5 * time.Second
	config.Scraper.DefaultPages = 3

	config.Generator.Command = "python3"
	config.Generator.Script = "scripts/job_proposal.py"
	config.Generator.Timeout = 120 * time.Second

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Export.FilePath = "data/upwork_jobs.csv"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if email := os.Getenv("MARKETPLACE_EMAIL"); email != "" {
		c.Marketplace.Email = email
	}

	if password := os.Getenv("MARKETPLACE_PASSWORD"); password != "" {
		c.Marketplace.Password = password
	}

	if loginURL := os.Getenv("MARKETPLACE_LOGIN_URL"); loginURL != "" {
		c.Scraper.LoginURL = loginURL
	}

	if searchURL := os.Getenv("MARKETPLACE_SEARCH_URL"); searchURL != "" {
		c.Scraper.SearchBaseURL = searchURL
	}

	if headless := os.Getenv("SCRAPER_HEADLESS"); headless != "" {
		c.Scraper.HeadlessMode = headless == "true" || headless == "1"
	}

	if settle := os.Getenv("SCRAPER_SETTLE_DELAY"); settle != "" {
		if d, err := time.ParseDuration(settle); err == nil {
			c.Scraper.SettleDelay = d
		}
	}

	if pageDelay := os.Getenv("SCRAPER_PAGE_DELAY"); pageDelay != "" {
		if d, err := time.ParseDuration(pageDelay); err == nil {
			c.Scraper.PageDelay = d
		}
	}

	if command := os.Getenv("GENERATOR_COMMAND"); command != "" {
		c.Generator.Command = command
	}

	if script := os.Getenv("GENERATOR_SCRIPT"); script != "" {
		c.Generator.Script = script
	}

	if timeout := os.Getenv("GENERATOR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Generator.Timeout = d
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	// Single-token deployments can configure auth entirely from env.
	if token := os.Getenv("API_TOKEN"); token != "" {
		if c.Auth.Tokens == nil {
			c.Auth.Tokens = make(map[string]string)
		}
		user := os.Getenv("API_TOKEN_USER")
		if user == "" {
			user = "default"
		}
		c.Auth.Tokens[token] = user
	}

	if exportPath := os.Getenv("EXPORT_FILE_PATH"); exportPath != "" {
		c.Export.FilePath = exportPath
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
