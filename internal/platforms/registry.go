package platforms

import (
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/structures"
)

// Registry holds the fetchers of the enabled platforms.
type Registry map[models.Platform]Fetcher

func NewRegistry(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) Registry {
	r := make(Registry)
	if conf.Platforms.LeetCode.Enabled {
		r[models.PlatformLeetCode] = NewLeetCode(conf.Platforms.LeetCode, logger, metrics)
	}
	if conf.Platforms.GitHub.Enabled {
		r[models.PlatformGitHub] = NewGitHub(conf.Platforms.GitHub, logger, metrics)
	}
	return r
}
