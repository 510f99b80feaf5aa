package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketRadar/internal/domain"
)

const (
	configPathEnv      = "MARKET_RADAR_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	databaseDriverEnv  = "DATABASE_DRIVER"
	llmProviderEnv     = "LLM_PROVIDER"
	llmModelEnv        = "LLM_MODEL"
	llmAPIKeyEnv       = "LLM_API_KEY"
	llmBaseURLEnv      = "LLM_BASE_URL"
	smtpHostEnv        = "SMTP_HOST"
	smtpPortEnv        = "SMTP_PORT"
	smtpUserEnv        = "SMTP_USER"
	smtpPassEnv        = "SMTP_PASS"
	smtpFromEnv        = "SMTP_FROM"
	alertEmailEnv      = "ALERT_EMAIL_TO"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	logLevelEnv        = "LOG_LEVEL"
	logFormatEnv       = "LOG_FORMAT"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// Provider names accepted in llm.provider.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// providerKeyEnv maps each provider to its conventional API key variable.
var providerKeyEnv = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
}

var providerDefaultModel = map[string]string{
	ProviderGroq:      "llama-3.3-70b-versatile",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.5-flash",
}

// ErrMissingCredential is returned by Validate when a required setting is empty.
var ErrMissingCredential = errors.New("missing required credential")

// Config holds every setting of a radar run. It is built once in main and
// passed by value into constructors.
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	LLM           LLMConfig           `yaml:"llm"`
	Feeds         []domain.FeedSource `yaml:"feeds"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Filter        FilterConfig        `yaml:"filter"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Classifier    ClassifierConfig    `yaml:"classifier"`
	Reviews       ReviewsConfig       `yaml:"reviews"`
	Notifications NotificationConfig  `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// DatabaseConfig selects the SQL driver and DSN.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LLMConfig describes the completion provider.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// FetchConfig tunes feed retrieval.
type FetchConfig struct {
	Parser      string        `yaml:"parser"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"userAgent"`
}

// FilterConfig holds the noise/signal keyword lists.
type FilterConfig struct {
	NoiseKeywords  []string `yaml:"noiseKeywords"`
	SignalKeywords []string `yaml:"signalKeywords"`
	BypassLabels   []string `yaml:"bypassLabels"`
}

// PipelineConfig bounds a single run.
type PipelineConfig struct {
	RecencyWindow time.Duration `yaml:"recencyWindow"`
	MaxBatch      int           `yaml:"maxBatch"`
}

// Category is one entry of the classification taxonomy.
type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ClassifierConfig shapes the news classification prompt.
type ClassifierConfig struct {
	AnalystRole    string     `yaml:"analystRole"`
	Categories     []Category `yaml:"categories"`
	ScoreThreshold float64    `yaml:"scoreThreshold"`
	AlwaysInclude  []string   `yaml:"alwaysInclude"`
}

// ReviewsConfig tunes the review analyzer.
type ReviewsConfig struct {
	BatchLimit  int     `yaml:"batchLimit"`
	Temperature float64 `yaml:"temperature"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	ScoreAbove   float64        `yaml:"scoreAbove"`
	DashboardURL string         `yaml:"dashboardUrl"`
	Email        EmailConfig    `yaml:"email"`
	Telegram     TelegramConfig `yaml:"telegram"`
}

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	SMTPServer string `yaml:"smtpServer"`
	SMTPPort   int    `yaml:"smtpPort"`
	SMTPUser   string `yaml:"smtpUser"`
	SMTPPass   string `yaml:"smtpPass"`
	FromEmail  string `yaml:"fromEmail"`
	ToEmail    string `yaml:"toEmail"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPUser != "" && e.ToEmail != ""
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether the Telegram channel is configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LoggingConfig sets the slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Requirement names a setting group a command cannot run without.
type Requirement int

const (
	RequireDatabase Requirement = iota
	RequireLLM
)

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := cfg.mergeYAML(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides(os.Getenv)
	cfg.fillProviderDefaults()
	return cfg
}

// mergeYAML decodes raw on top of the current values; lists given in the
// file replace the defaults wholesale.
func (c *Config) mergeYAML(raw []byte) error {
	next := *c
	if err := yaml.Unmarshal(raw, &next); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := getenv(llmBaseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	} else if name, ok := providerKeyEnv[c.LLM.Provider]; ok {
		if v := getenv(name); v != "" {
			c.LLM.APIKey = v
		}
	}

	if v := getenv(smtpHostEnv); v != "" {
		c.Notifications.Email.SMTPServer = v
	}
	if v := getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Notifications.Email.SMTPPort = port
		} else {
			log.Printf("config: ignoring invalid %s=%q", smtpPortEnv, v)
		}
	}
	if v := getenv(smtpUserEnv); v != "" {
		c.Notifications.Email.SMTPUser = v
	}
	if v := getenv(smtpPassEnv); v != "" {
		c.Notifications.Email.SMTPPass = v
	}
	if v := getenv(smtpFromEnv); v != "" {
		c.Notifications.Email.FromEmail = v
	}
	if v := getenv(alertEmailEnv); v != "" {
		c.Notifications.Email.ToEmail = v
	}

	if v := getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) fillProviderDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGroq
	}
	if c.LLM.Model == "" {
		c.LLM.Model = providerDefaultModel[c.LLM.Provider]
	}
	if c.LLM.Provider == ProviderGroq && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultGroqBaseURL
	}
	if c.Notifications.Email.FromEmail == "" {
		c.Notifications.Email.FromEmail = c.Notifications.Email.SMTPUser
	}
}

// Validate fails fast when a required setting is missing, before any I/O.
func (c Config) Validate(reqs ...Requirement) error {
	for _, req := range reqs {
		switch req {
		case RequireDatabase:
			if c.Database.DSN == "" {
				return fmt.Errorf("%w: %s", ErrMissingCredential, databaseDSNEnv)
			}
			switch c.Database.Driver {
			case "postgres", "sqlite":
			default:
				return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
			}
		case RequireLLM:
			if _, ok := providerKeyEnv[c.LLM.Provider]; !ok {
				return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
			}
			if c.LLM.APIKey == "" {
				return fmt.Errorf("%w: %s", ErrMissingCredential, providerKeyEnv[c.LLM.Provider])
			}
		}
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "postgres"},
		LLM: LLMConfig{
			Provider:    ProviderGroq,
			Temperature: 0.3,
			MaxTokens:   4096,
			Timeout:     90 * time.Second,
		},
		Feeds: defaultFeeds(),
		Fetch: FetchConfig{
			Parser:      "regex",
			Timeout:     20 * time.Second,
			Concurrency: 4,
			UserAgent:   "MarketRadar/1.0",
		},
		Filter: FilterConfig{
			NoiseKeywords: []string{
				"penghargaan", "csr", "ulang tahun", "seremonial", "mou",
				"kunjungan kerja", "lomba", "wisuda", "bakti sosial", "donor darah",
			},
			SignalKeywords: []string{
				"tarik", "recall", "obat ilegal", "klb", "wabah", "izin edar",
				"kenaikan harga", "akuisisi", "cabang baru", "promo", "diskon",
				"outbreak", "pandemi", "darurat", "langka", "ditarik", "palsu",
				"merger", "ekspansi", "tutup", "bangkrut", "regulasi baru",
			},
			BypassLabels: []string{"Competitor Watch"},
		},
		Pipeline: PipelineConfig{
			RecencyWindow: 7 * 24 * time.Hour,
			MaxBatch:      100,
		},
		Classifier: ClassifierConfig{
			AnalystRole:    "a senior pharmacy retail strategy analyst for a chain of 200+ outlets",
			Categories:     defaultCategories(),
			ScoreThreshold: 7,
			AlwaysInclude:  []string{"COMPETITOR_UPDATE"},
		},
		Reviews: ReviewsConfig{BatchLimit: 50, Temperature: 0.2},
		Notifications: NotificationConfig{
			ScoreAbove:   7,
			DashboardURL: "http://localhost:5173",
			Email:        EmailConfig{SMTPPort: 587},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func defaultCategories() []Category {
	return []Category{
		{Name: "COMPETITOR_MOVE", Description: "strategic competitor activity (expansion, big promotions, acquisitions, branch closures)"},
		{Name: "REGULATORY_CHANGE", Description: "drug authority or health ministry regulation changes (distribution permits, new rules, recalls)"},
		{Name: "PUBLIC_HEALTH_ISSUE", Description: "public health issues (outbreaks, extraordinary events, pandemics)"},
		{Name: "PRODUCT_SAFETY", Description: "product safety (counterfeit or illegal drugs, withdrawn products, recalls)"},
		{Name: "COMPETITOR_UPDATE", Description: "general competitor news (CSR, awards, ordinary event coverage)"},
	}
}

func defaultFeeds() []domain.FeedSource {
	return []domain.FeedSource{
		{Endpoint: "https://news.google.com/rss/search?q=site:pom.go.id+intitle:%22siaran+pers%22&hl=id&gl=ID&ceid=ID:id", Label: "BPOM Siaran Pers"},
		{Endpoint: "https://news.google.com/rss/search?q=site:pom.go.id+intitle:%22penjelasan+publik%22&hl=id&gl=ID&ceid=ID:id", Label: "BPOM Penjelasan Publik"},
		{Endpoint: "https://kemkes.go.id/id/rss/article/rilis-berita", Label: "Kemenkes Rilis"},
		{Endpoint: "https://pusatkrisis.kemkes.go.id/feed/rss.php?cat=eo", Label: "Kemenkes Krisis"},
		{Endpoint: "https://news.google.com/rss/search?q=%22Kimia+Farma%22+OR+%22Apotek+K24%22+OR+%22Guardian%22+OR+%22Watson%22+OR+%22Apotek+Roxy%22&hl=id&gl=ID&ceid=ID:id", Label: "Competitor Watch"},
	}
}
