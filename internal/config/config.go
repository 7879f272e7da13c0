package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
)

const (
	FileName = ".gravitycommit.toml"
	// DotEnvFile is read for secrets the config file leaves empty.
	DotEnvFile = ".env"
)

// PrivateFiles are the project files that may hold secrets. The commit
// cycle never picks them up.
func PrivateFiles() []string {
	return []string{FileName, DotEnvFile}
}

type (
	Config struct {
		IntervalMinutes int      `toml:"interval_minutes"`
		Language        string   `toml:"language"`
		UseEmoji        bool     `toml:"use_emoji"`
		Backend         string   `toml:"backend"`
		ManualOverride  bool     `toml:"manual_override"`
		ReadContent     bool     `toml:"read_content"`
		EditorProcesses []string `toml:"editor_processes"`
		EnvIndicators   []string `toml:"env_indicators"`

		Watch         WatchConfig         `toml:"watch"`
		Notifications NotificationsConfig `toml:"notifications"`
		CI            CIConfig            `toml:"ci"`

		PathFile string `toml:"-"`

		// envSourced remembers secrets filled from the environment so they are
		// never written back to disk.
		envSourced map[string]bool
	}

	WatchConfig struct {
		Enabled         bool `toml:"enabled"`
		DebounceSeconds int  `toml:"debounce_seconds"`
	}

	NotificationsConfig struct {
		ImportantCategories []string      `toml:"important_categories"`
		OnEveryCycle        bool          `toml:"on_every_cycle"`
		RatePerMinute       int           `toml:"rate_per_minute"`
		Desktop             DesktopConfig `toml:"desktop"`
		Email               EmailConfig   `toml:"email"`
		Webhook             WebhookConfig `toml:"webhook"`
		Slack               SlackConfig   `toml:"slack"`
	}

	DesktopConfig struct {
		Enabled bool `toml:"enabled"`
	}

	EmailConfig struct {
		Enabled  bool     `toml:"enabled"`
		Host     string   `toml:"host"`
		Port     int      `toml:"port"`
		Username string   `toml:"username"`
		Password string   `toml:"password,omitempty"`
		From     string   `toml:"from"`
		To       []string `toml:"to"`
	}

	WebhookConfig struct {
		Enabled bool              `toml:"enabled"`
		URL     string            `toml:"url"`
		Headers map[string]string `toml:"headers,omitempty"`
	}

	SlackConfig struct {
		Enabled    bool   `toml:"enabled"`
		WebhookURL string `toml:"webhook_url,omitempty"`
		Channel    string `toml:"channel,omitempty"`
	}

	CIConfig struct {
		OnCommit bool          `toml:"on_commit"`
		GitHub   GitHubConfig  `toml:"github"`
		GitLab   GitLabConfig  `toml:"gitlab"`
		Jenkins  JenkinsConfig `toml:"jenkins"`
	}

	GitHubConfig struct {
		Enabled  bool              `toml:"enabled"`
		Token    string            `toml:"token,omitempty"`
		Owner    string            `toml:"owner,omitempty"`
		Repo     string            `toml:"repo,omitempty"`
		Workflow string            `toml:"workflow"`
		Ref      string            `toml:"ref,omitempty"`
		Inputs   map[string]string `toml:"inputs,omitempty"`
	}

	GitLabConfig struct {
		Enabled   bool              `toml:"enabled"`
		URL       string            `toml:"url"`
		ProjectID string            `toml:"project_id"`
		Token     string            `toml:"token,omitempty"`
		Ref       string            `toml:"ref,omitempty"`
		Variables map[string]string `toml:"variables,omitempty"`
	}

	JenkinsConfig struct {
		Enabled    bool              `toml:"enabled"`
		URL        string            `toml:"url"`
		Job        string            `toml:"job"`
		User       string            `toml:"user,omitempty"`
		Token      string            `toml:"token,omitempty"`
		Parameters map[string]string `toml:"parameters,omitempty"`
	}
)

const (
	defaultIntervalMinutes = 10
	defaultLang            = LangEN
	defaultUseEmoji        = true
	defaultBackend         = "exec"
	defaultDebounceSeconds = 5
	defaultRatePerMinute   = 6
	defaultSMTPPort        = 587

	minIntervalMinutes = 1
	maxIntervalMinutes = 24 * 60
)

// Default returns the configuration used when a project has none.
func Default() *Config {
	return &Config{
		IntervalMinutes: defaultIntervalMinutes,
		Language:        defaultLang,
		UseEmoji:        defaultUseEmoji,
		Backend:         defaultBackend,
		ReadContent:     true,
		EditorProcesses: []string{},
		EnvIndicators:   []string{},
		Watch: WatchConfig{
			DebounceSeconds: defaultDebounceSeconds,
		},
		Notifications: NotificationsConfig{
			ImportantCategories: []string{"milestone", "complete", "deploy"},
			RatePerMinute:       defaultRatePerMinute,
			Email:               EmailConfig{Port: defaultSMTPPort},
		},
		CI: CIConfig{
			GitHub: GitHubConfig{Ref: "main"},
			GitLab: GitLabConfig{URL: "https://gitlab.com", Ref: "main"},
		},
	}
}

// Path returns the config file location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, FileName)
}

// Exists reports whether the project has been set up.
func Exists(projectPath string) bool {
	_, err := os.Stat(Path(projectPath))
	return err == nil
}

// Load reads the project configuration. A missing file yields defaults and
// no error. A malformed or invalid file yields defaults together with a
// CONFIGURATION error so callers can warn and carry on.
func Load(projectPath string) (*Config, error) {
	cfg := Default()
	cfg.PathFile = Path(projectPath)

	data, err := os.ReadFile(cfg.PathFile)
	switch {
	case os.IsNotExist(err):
		cfg.applySecrets(projectPath)
		return cfg, nil
	case err != nil:
		cfg.applySecrets(projectPath)
		return cfg, domainErrors.ErrConfigMalformed.WithError(err).WithContext("path", cfg.PathFile)
	}

	loaded, err := decode(data)
	if err == nil {
		err = loaded.Validate()
	}
	if err != nil {
		cfg.applySecrets(projectPath)
		return cfg, domainErrors.ErrConfigMalformed.WithError(err).WithContext("path", cfg.PathFile)
	}

	loaded.PathFile = cfg.PathFile
	loaded.applySecrets(projectPath)
	return loaded, nil
}

func decode(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to PathFile. Secrets that came from the
// environment are left out.
func Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PathFile == "" {
		return domainErrors.ErrConfigWrite.WithContext("reason", "config path is not set")
	}

	data, err := cfg.encode(false)
	if err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}
	if err := os.WriteFile(cfg.PathFile, data, 0o600); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}
	return nil
}

// Reset overwrites the project configuration with defaults.
func Reset(projectPath string) (*Config, error) {
	cfg := Default()
	cfg.PathFile = Path(projectPath)
	if err := Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Remove deletes the project configuration file, if any.
func Remove(projectPath string) error {
	if err := os.Remove(Path(projectPath)); err != nil && !os.IsNotExist(err) {
		return domainErrors.ErrConfigWrite.WithError(err)
	}
	return nil
}

// Export writes the configuration to dest with every secret stripped.
func Export(cfg *Config, dest string) error {
	data, err := cfg.encode(true)
	if err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", dest)
	}
	return nil
}

// Import validates the file at src and installs it as the project config.
func Import(projectPath, src string) (*Config, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, domainErrors.ErrConfigMalformed.WithError(err).WithContext("path", src)
	}
	cfg, err := decode(data)
	if err != nil {
		return nil, domainErrors.ErrConfigMalformed.WithError(err).WithContext("path", src)
	}
	cfg.PathFile = Path(projectPath)
	if err := Save(cfg); err != nil {
		return nil, err
	}
	cfg.applySecrets(projectPath)
	return cfg, nil
}

func (c *Config) encode(redactAll bool) ([]byte, error) {
	out := *c
	for _, b := range secretBindings {
		if redactAll || c.envSourced[b.env] {
			*b.field(&out) = ""
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Interval is the scheduling period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Debounce is the quiet period before a watch-mode cycle.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceSeconds) * time.Second
}

func (c *Config) Validate() error {
	invalid := func(reason string) error {
		return domainErrors.ErrConfigInvalid.WithContext("reason", reason)
	}

	if c.IntervalMinutes < minIntervalMinutes || c.IntervalMinutes > maxIntervalMinutes {
		return invalid(fmt.Sprintf("interval_minutes must be between %d and %d", minIntervalMinutes, maxIntervalMinutes))
	}
	if !IsSupportedLanguage(c.Language) {
		return invalid(fmt.Sprintf("language %q is not supported", c.Language))
	}
	if c.Backend != "exec" && c.Backend != "go-git" {
		return invalid(fmt.Sprintf("backend %q must be exec or go-git", c.Backend))
	}
	if c.Watch.DebounceSeconds < 0 {
		return invalid("watch.debounce_seconds cannot be negative")
	}
	if c.Notifications.RatePerMinute < 0 {
		return invalid("notifications.rate_per_minute cannot be negative")
	}

	if e := c.Notifications.Email; e.Enabled {
		if e.Host == "" || e.Port <= 0 || e.From == "" || len(e.To) == 0 {
			return invalid("notifications.email needs host, port, from and to")
		}
	}
	if w := c.Notifications.Webhook; w.Enabled && w.URL == "" {
		return invalid("notifications.webhook needs url")
	}
	if gh := c.CI.GitHub; gh.Enabled && gh.Workflow == "" {
		return invalid("ci.github needs workflow")
	}
	if gl := c.CI.GitLab; gl.Enabled && (gl.URL == "" || gl.ProjectID == "") {
		return invalid("ci.gitlab needs url and project_id")
	}
	if j := c.CI.Jenkins; j.Enabled && (j.URL == "" || j.Job == "") {
		return invalid("ci.jenkins needs url and job")
	}
	return nil
}

type field struct {
	ptr    any
	secret bool
}

func (c *Config) fields() map[string]field {
	return map[string]field{
		"interval_minutes": {ptr: &c.IntervalMinutes},
		"language":         {ptr: &c.Language},
		"use_emoji":        {ptr: &c.UseEmoji},
		"backend":          {ptr: &c.Backend},
		"manual_override":  {ptr: &c.ManualOverride},
		"read_content":     {ptr: &c.ReadContent},
		"editor_processes": {ptr: &c.EditorProcesses},
		"env_indicators":   {ptr: &c.EnvIndicators},

		"watch.enabled":          {ptr: &c.Watch.Enabled},
		"watch.debounce_seconds": {ptr: &c.Watch.DebounceSeconds},

		"notifications.important_categories": {ptr: &c.Notifications.ImportantCategories},
		"notifications.on_every_cycle":       {ptr: &c.Notifications.OnEveryCycle},
		"notifications.rate_per_minute":      {ptr: &c.Notifications.RatePerMinute},
		"notifications.desktop.enabled":      {ptr: &c.Notifications.Desktop.Enabled},
		"notifications.email.enabled":        {ptr: &c.Notifications.Email.Enabled},
		"notifications.email.host":           {ptr: &c.Notifications.Email.Host},
		"notifications.email.port":           {ptr: &c.Notifications.Email.Port},
		"notifications.email.username":       {ptr: &c.Notifications.Email.Username},
		"notifications.email.password":       {ptr: &c.Notifications.Email.Password, secret: true},
		"notifications.email.from":           {ptr: &c.Notifications.Email.From},
		"notifications.email.to":             {ptr: &c.Notifications.Email.To},
		"notifications.webhook.enabled":      {ptr: &c.Notifications.Webhook.Enabled},
		"notifications.webhook.url":          {ptr: &c.Notifications.Webhook.URL},
		"notifications.slack.enabled":        {ptr: &c.Notifications.Slack.Enabled},
		"notifications.slack.webhook_url":    {ptr: &c.Notifications.Slack.WebhookURL, secret: true},
		"notifications.slack.channel":        {ptr: &c.Notifications.Slack.Channel},

		"ci.on_commit":         {ptr: &c.CI.OnCommit},
		"ci.github.enabled":    {ptr: &c.CI.GitHub.Enabled},
		"ci.github.token":      {ptr: &c.CI.GitHub.Token, secret: true},
		"ci.github.owner":      {ptr: &c.CI.GitHub.Owner},
		"ci.github.repo":       {ptr: &c.CI.GitHub.Repo},
		"ci.github.workflow":   {ptr: &c.CI.GitHub.Workflow},
		"ci.github.ref":        {ptr: &c.CI.GitHub.Ref},
		"ci.gitlab.enabled":    {ptr: &c.CI.GitLab.Enabled},
		"ci.gitlab.url":        {ptr: &c.CI.GitLab.URL},
		"ci.gitlab.project_id": {ptr: &c.CI.GitLab.ProjectID},
		"ci.gitlab.token":      {ptr: &c.CI.GitLab.Token, secret: true},
		"ci.gitlab.ref":        {ptr: &c.CI.GitLab.Ref},
		"ci.jenkins.enabled":   {ptr: &c.CI.Jenkins.Enabled},
		"ci.jenkins.url":       {ptr: &c.CI.Jenkins.URL},
		"ci.jenkins.job":       {ptr: &c.CI.Jenkins.Job},
		"ci.jenkins.user":      {ptr: &c.CI.Jenkins.User},
		"ci.jenkins.token":     {ptr: &c.CI.Jenkins.Token, secret: true},
	}
}

// Keys lists every key accepted by Set, sorted.
func (c *Config) Keys() []string {
	fields := c.fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value for a dotted key and validates the result. On error the
// configuration is left unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := c.fields()[key]
	if !ok {
		return domainErrors.ErrUnknownConfigKey.WithContext("key", key)
	}

	backup := *c
	if err := assign(f.ptr, value); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(err).WithContext("key", key)
	}
	if err := c.Validate(); err != nil {
		*c = backup
		return err
	}
	if c.envSourced != nil {
		for _, b := range secretBindings {
			if b.key == key {
				delete(c.envSourced, b.env)
			}
		}
	}
	return nil
}

// Get renders a key's current value. Secrets are masked unless reveal is set.
func (c *Config) Get(key string, reveal bool) (string, error) {
	f, ok := c.fields()[key]
	if !ok {
		return "", domainErrors.ErrUnknownConfigKey.WithContext("key", key)
	}
	value := render(f.ptr)
	if f.secret && !reveal && value != "" {
		return "********", nil
	}
	return value, nil
}

func assign(ptr any, value string) error {
	switch p := ptr.(type) {
	case *string:
		*p = strings.TrimSpace(value)
	case *bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*p = b
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*p = n
	case *[]string:
		*p = splitList(value)
	default:
		return fmt.Errorf("unsupported field type %T", ptr)
	}
	return nil
}

func render(ptr any) string {
	switch p := ptr.(type) {
	case *string:
		return *p
	case *bool:
		return strconv.FormatBool(*p)
	case *int:
		return strconv.Itoa(*p)
	case *[]string:
		return strings.Join(*p, ",")
	default:
		return ""
	}
}

func splitList(value string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
