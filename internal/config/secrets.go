package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type secretBinding struct {
	env   string
	key   string
	field func(*Config) *string
}

var secretBindings = []secretBinding{
	{"GRAVITYCOMMIT_GITHUB_TOKEN", "ci.github.token", func(c *Config) *string { return &c.CI.GitHub.Token }},
	{"GRAVITYCOMMIT_GITLAB_TOKEN", "ci.gitlab.token", func(c *Config) *string { return &c.CI.GitLab.Token }},
	{"GRAVITYCOMMIT_JENKINS_TOKEN", "ci.jenkins.token", func(c *Config) *string { return &c.CI.Jenkins.Token }},
	{"GRAVITYCOMMIT_SMTP_PASSWORD", "notifications.email.password", func(c *Config) *string { return &c.Notifications.Email.Password }},
	{"GRAVITYCOMMIT_SLACK_WEBHOOK", "notifications.slack.webhook_url", func(c *Config) *string { return &c.Notifications.Slack.WebhookURL }},
}

// applySecrets fills empty secret fields from the process environment, then
// from the project's .env file.
func (c *Config) applySecrets(projectPath string) {
	dotenv, err := godotenv.Read(filepath.Join(projectPath, DotEnvFile))
	if err != nil {
		dotenv = map[string]string{}
	}

	for _, b := range secretBindings {
		ptr := b.field(c)
		if *ptr != "" {
			continue
		}
		value := os.Getenv(b.env)
		if value == "" {
			value = dotenv[b.env]
		}
		if value == "" {
			continue
		}
		*ptr = value
		if c.envSourced == nil {
			c.envSourced = make(map[string]bool)
		}
		c.envSourced[b.env] = true
	}
}
