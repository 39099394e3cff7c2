package models

import (
	"fmt"

	"github.com/gookit/validate"
)

// Subject is a tracked student together with the platform accounts that
// feed their calendars.
type Subject struct {
	ID       string `json:"id" validate:"required|alphaDash|maxLen:64"`
	Name     string `json:"name" validate:"maxLen:128"`
	LeetCode string `json:"leetcode,omitempty" validate:"maxLen:64"`
	GitHub   string `json:"github,omitempty" validate:"maxLen:64"`
}

func (s *Subject) Validate() error {
	v := validate.Struct(s)
	if !v.Validate() {
		return fmt.Errorf("invalid subject: %s", v.Errors.String())
	}
	return nil
}

// Accounts returns the usernames by platform, omitting unset ones.
func (s *Subject) Accounts() map[Platform]string {
	accounts := make(map[Platform]string, len(Platforms))
	if s.LeetCode != "" {
		accounts[PlatformLeetCode] = s.LeetCode
	}
	if s.GitHub != "" {
		accounts[PlatformGitHub] = s.GitHub
	}
	return accounts
}
