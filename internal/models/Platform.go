package models

import "fmt"

type Platform string

const (
	PlatformLeetCode Platform = "leetcode"
	PlatformGitHub   Platform = "github"
)

var Platforms = []Platform{PlatformLeetCode, PlatformGitHub}

func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}
