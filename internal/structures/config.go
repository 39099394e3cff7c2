package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CalendarConfig struct {
	DailyWindow  int           `yaml:"dailyWindow" validate:"required|min:1|max:3660"`
	WeeklyWindow int           `yaml:"weeklyWindow" validate:"required|min:1|max:3660"`
	WeekStart    string        `yaml:"weekStart" validate:"in:sunday,monday"`
	StaleAfter   time.Duration `yaml:"staleAfter"`
}

type RefreshConfig struct {
	Interval    time.Duration `yaml:"interval" validate:"required|min:1"`
	Concurrency int           `yaml:"concurrency" validate:"required|min:1|max:64"`
	Timeout     time.Duration `yaml:"timeout"`
}

type PlatformConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BaseURL       string        `yaml:"baseURL"`
	Token         string        `yaml:"token"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"ratePerSecond"`
	Burst         int           `yaml:"burst"`
}

type PlatformsConfig struct {
	LeetCode PlatformConfig `yaml:"leetcode"`
	GitHub   PlatformConfig `yaml:"github"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Calendar    CalendarConfig  `yaml:"calendar"`
	Refresh     RefreshConfig   `yaml:"refresh"`
	Platforms   PlatformsConfig `yaml:"platforms"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
