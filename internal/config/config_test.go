package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
)

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, b := range secretBindings {
		t.Setenv(b.env, "")
	}
}

func TestLoad(t *testing.T) {
	clearSecretEnv(t)

	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(dir)

		require.NoError(t, err)
		assert.Equal(t, 10, cfg.IntervalMinutes)
		assert.Equal(t, 10*time.Minute, cfg.Interval())
		assert.Equal(t, "en", cfg.Language)
		assert.True(t, cfg.UseEmoji)
		assert.Equal(t, "exec", cfg.Backend)
		assert.Equal(t, filepath.Join(dir, FileName), cfg.PathFile)
		assert.False(t, Exists(dir))
	})

	t.Run("partial file keeps defaults for missing keys", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(Path(dir), []byte("interval_minutes = 3\nmanual_override = true\n"), 0o644))

		cfg, err := Load(dir)

		require.NoError(t, err)
		assert.Equal(t, 3, cfg.IntervalMinutes)
		assert.True(t, cfg.ManualOverride)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, []string{"milestone", "complete", "deploy"}, cfg.Notifications.ImportantCategories)
	})

	t.Run("malformed file yields defaults and a configuration error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(Path(dir), []byte("interval_minutes = [oops"), 0o644))

		cfg, err := Load(dir)

		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrConfigMalformed)
		assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
		require.NotNil(t, cfg)
		assert.Equal(t, 10, cfg.IntervalMinutes)
	})

	t.Run("invalid values are treated like a malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(Path(dir), []byte("interval_minutes = 0\n"), 0o644))

		cfg, err := Load(dir)

		assert.ErrorIs(t, err, domainErrors.ErrConfigMalformed)
		assert.Equal(t, 10, cfg.IntervalMinutes)
	})
}

func TestSaveAndReload(t *testing.T) {
	clearSecretEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	cfg.IntervalMinutes = 15
	cfg.EditorProcesses = []string{"zed"}
	cfg.CI.GitHub.Enabled = true
	cfg.CI.GitHub.Workflow = "ci.yml"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists(dir))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 15, reloaded.IntervalMinutes)
	assert.Equal(t, []string{"zed"}, reloaded.EditorProcesses)
	assert.Equal(t, "ci.yml", reloaded.CI.GitHub.Workflow)

	t.Run("invalid config is not saved", func(t *testing.T) {
		reloaded.Backend = "svn"
		err := Save(reloaded)
		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
	})
}

func TestSecrets(t *testing.T) {
	clearSecretEnv(t)

	t.Run("environment fills empty secrets but is never persisted", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GRAVITYCOMMIT_GITHUB_TOKEN", "ghp_env")

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "ghp_env", cfg.CI.GitHub.Token)

		require.NoError(t, Save(cfg))
		data, err := os.ReadFile(Path(dir))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "ghp_env")
	})

	t.Run("dotenv file is read when the environment is empty", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GRAVITYCOMMIT_SMTP_PASSWORD=hunter2\n"), 0o600))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "hunter2", cfg.Notifications.Email.Password)
	})

	t.Run("file value wins over environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GRAVITYCOMMIT_GITLAB_TOKEN", "from-env")
		require.NoError(t, os.WriteFile(Path(dir), []byte("[ci.gitlab]\ntoken = \"from-file\"\n"), 0o600))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.CI.GitLab.Token)
	})
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, c *Config)
		wantErr error
	}{
		{
			name: "int", key: "interval_minutes", value: "30",
			check: func(t *testing.T, c *Config) { assert.Equal(t, 30, c.IntervalMinutes) },
		},
		{
			name: "bool", key: "notifications.desktop.enabled", value: "true",
			check: func(t *testing.T, c *Config) { assert.True(t, c.Notifications.Desktop.Enabled) },
		},
		{
			name: "list", key: "editor_processes", value: "zed, helix ,",
			check: func(t *testing.T, c *Config) { assert.Equal(t, []string{"zed", "helix"}, c.EditorProcesses) },
		},
		{
			name: "string", key: "ci.jenkins.job", value: "build-app",
			check: func(t *testing.T, c *Config) { assert.Equal(t, "build-app", c.CI.Jenkins.Job) },
		},
		{name: "unknown key", key: "nope", value: "1", wantErr: domainErrors.ErrUnknownConfigKey},
		{name: "bad int", key: "interval_minutes", value: "soon", wantErr: domainErrors.ErrConfigInvalid},
		{name: "out of range", key: "interval_minutes", value: "0", wantErr: domainErrors.ErrConfigInvalid},
		{name: "bad language", key: "language", value: "fr", wantErr: domainErrors.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Default().IntervalMinutes, cfg.IntervalMinutes, "failed Set must not change the config")
				assert.Equal(t, Default().Language, cfg.Language)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGet(t *testing.T) {
	cfg := Default()
	cfg.CI.GitHub.Token = "secret"

	v, err := cfg.Get("ci.github.token", false)
	require.NoError(t, err)
	assert.Equal(t, "********", v)

	v, err = cfg.Get("ci.github.token", true)
	require.NoError(t, err)
	assert.Equal(t, "secret", v)

	v, err = cfg.Get("interval_minutes", false)
	require.NoError(t, err)
	assert.Equal(t, "10", v)

	assert.Contains(t, cfg.Keys(), "watch.debounce_seconds")
	assert.IsIncreasing(t, cfg.Keys())
}

func TestExportImportReset(t *testing.T) {
	clearSecretEnv(t)
	src := t.TempDir()
	dst := t.TempDir()

	cfg := Default()
	cfg.PathFile = Path(src)
	cfg.IntervalMinutes = 42
	cfg.Notifications.Slack.Enabled = true
	cfg.Notifications.Slack.WebhookURL = "https://hooks.slack.com/services/secret"
	require.NoError(t, Save(cfg))

	exported := filepath.Join(t.TempDir(), "shared.toml")
	require.NoError(t, Export(cfg, exported))
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hooks.slack.com", "export must strip secrets")

	imported, err := Import(dst, exported)
	require.NoError(t, err)
	assert.Equal(t, 42, imported.IntervalMinutes)
	assert.Equal(t, Path(dst), imported.PathFile)
	assert.True(t, Exists(dst))

	reset, err := Reset(dst)
	require.NoError(t, err)
	assert.Equal(t, 10, reset.IntervalMinutes)

	reloaded, err := Load(dst)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.IntervalMinutes)

	require.NoError(t, Remove(dst))
	assert.False(t, Exists(dst))

	_, err = Import(dst, filepath.Join(dst, "missing.toml"))
	assert.ErrorIs(t, err, domainErrors.ErrConfigMalformed)
}

func TestGetLocaleConfig(t *testing.T) {
	assert.Equal(t, LangES, GetLocaleConfig("es"))
	assert.Equal(t, LangEN, GetLocaleConfig("fr"))
}
