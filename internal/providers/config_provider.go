package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"streakd/internal/structures"
	"strings"
	"time"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("calendar.dailyWindow", 365)
	v.SetDefault("calendar.weeklyWindow", 364)
	v.SetDefault("calendar.weekStart", "sunday")
	v.SetDefault("calendar.staleAfter", 10*time.Minute)
	v.SetDefault("refresh.concurrency", 4)
	v.SetDefault("refresh.timeout", 2*time.Minute)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("platforms.leetcode.baseURL", "https://leetcode.com/graphql")
	v.SetDefault("platforms.leetcode.timeout", 15*time.Second)
	v.SetDefault("platforms.leetcode.ratePerSecond", 1.0)
	v.SetDefault("platforms.leetcode.burst", 2)
	v.SetDefault("platforms.github.baseURL", "https://github-contributions-api.jogruber.de")
	v.SetDefault("platforms.github.timeout", 15*time.Second)
	v.SetDefault("platforms.github.ratePerSecond", 2.0)
	v.SetDefault("platforms.github.burst", 4)

	_ = v.BindEnv("logger.level", "STREAKD_LOG_LEVEL")
	_ = v.BindEnv("refresh.interval", "STREAKD_REFRESH_INTERVAL")
	_ = v.BindEnv("persistence.saveInterval", "STREAKD_SAVE_INTERVAL")
	_ = v.BindEnv("cache.enabled", "STREAKD_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "STREAKD_CACHE_SIZE")
	_ = v.BindEnv("platforms.github.token", "STREAKD_GITHUB_TOKEN")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StreakDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// WeekStart resolves the configured first day of the grid week.
func WeekStart(conf *structures.Config) time.Weekday {
	if strings.EqualFold(conf.Calendar.WeekStart, "monday") {
		return time.Monday
	}
	return time.Sunday
}
