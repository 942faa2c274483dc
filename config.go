package contentapi

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the content API, populated from
// environment variables.
type Config struct {
	Addr    string `env:"ADDR" env-default:":8080"`
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:8080"`

	SiteName        string `env:"SITE_NAME" env-default:"Blog"`
	SiteDescription string `env:"SITE_DESCRIPTION"`

	DatabasePath string `env:"DATABASE_PATH" env-default:"data/content.db"`
	UploadDir    string `env:"UPLOAD_DIR" env-default:"public/uploads/blogs"`

	// AdminPassword may be a bcrypt hash (recommended) or a plain secret;
	// login detects which. SessionSecret signs the admin session cookie.
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	CookieSecure  bool   `env:"COOKIE_SECURE" env-default:"false"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	// FreezeSlugs keeps a post's slug fixed after creation instead of
	// re-deriving it from the title on every update. Off by default to
	// preserve the historical behavior, where editing a title changes the
	// post's public URL.
	FreezeSlugs bool `env:"SLUG_FREEZE" env-default:"false"`

	SummaryCacheTTL time.Duration `env:"SUMMARY_CACHE_TTL" env-default:"5m"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
