package i18n

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewTranslations(t *testing.T) {
	t.Run("Should load the embedded catalogs", func(t *testing.T) {
		// act
		trans, err := New("en")

		// assert
		require.NoError(t, err)
		assert.Equal(t, "en", trans.Language())
		assert.Equal(t, "Nothing to commit", trans.GetMessage("status_clean", 0, nil))
	})

	t.Run("Should fail with empty language", func(t *testing.T) {
		// act
		trans, err := NewTranslations("", t.TempDir())

		// assert
		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("Should let files on disk override embedded messages", func(t *testing.T) {
		// arrange
		tmpDir := t.TempDir()
		createTestFile(t, tmpDir, "active.es.toml", `status_clean = "Todo limpio"`)

		// act
		trans, err := NewTranslations("es", tmpDir)

		// assert
		require.NoError(t, err)
		assert.Equal(t, "Todo limpio", trans.GetMessage("status_clean", 0, nil))
	})

	t.Run("Should fail on a broken locale file", func(t *testing.T) {
		// arrange
		tmpDir := t.TempDir()
		createTestFile(t, tmpDir, "active.en.toml", `status_clean = [`)

		// act
		_, err := NewTranslations("en", tmpDir)

		// assert
		assert.Error(t, err)
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := New("en")
	require.NoError(t, err)

	t.Run("Should change to a valid language", func(t *testing.T) {
		require.NoError(t, trans.SetLanguage("es"))
		assert.Equal(t, "es", trans.Language())
		assert.Equal(t, "No hay nada para commitear", trans.GetMessage("status_clean", 0, nil))
	})

	t.Run("Should reject an unknown language", func(t *testing.T) {
		err := trans.SetLanguage("fr")
		assert.ErrorContains(t, err, "not supported")
		assert.Equal(t, "es", trans.Language())
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := New("en")
	require.NoError(t, err)

	t.Run("Should pluralize", func(t *testing.T) {
		assert.Equal(t, "1 commit created", trans.GetMessage("run_cycle_committed", 1, map[string]interface{}{"Count": 1}))
		assert.Equal(t, "3 commits created", trans.GetMessage("run_cycle_committed", 3, map[string]interface{}{"Count": 3}))
	})

	t.Run("Should fill template data", func(t *testing.T) {
		msg := trans.GetMessage("config_set_done", 0, map[string]interface{}{"Key": "interval_minutes", "Value": "5"})
		assert.Equal(t, "interval_minutes set to 5", msg)
	})

	t.Run("Should report missing translations", func(t *testing.T) {
		assert.Equal(t, "Translation missing: NonExistent", trans.GetMessage("NonExistent", 0, nil))
	})
}

func TestCatalogsHaveTheSameKeys(t *testing.T) {
	keys := func(name string) []string {
		data, err := embeddedLocales.ReadFile("locales/" + name)
		require.NoError(t, err)
		var messages map[string]interface{}
		require.NoError(t, toml.Unmarshal(data, &messages))
		out := make([]string, 0, len(messages))
		for k := range messages {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	assert.Equal(t, keys("active.en.toml"), keys("active.es.toml"))
}

func TestEveryCatalogMessageResolves(t *testing.T) {
	pluralForms := map[string]bool{"zero": true, "one": true, "two": true, "few": true, "many": true, "other": true}

	for _, lang := range []string{"en", "es"} {
		t.Run(lang, func(t *testing.T) {
			data, err := embeddedLocales.ReadFile("locales/active." + lang + ".toml")
			require.NoError(t, err)
			var messages map[string]interface{}
			require.NoError(t, toml.Unmarshal(data, &messages))

			trans, err := New(lang)
			require.NoError(t, err)

			for id, value := range messages {
				if table, ok := value.(map[string]interface{}); ok {
					for form := range table {
						assert.True(t, pluralForms[form], "%s.%s is nested under a plural table", id, form)
					}
				}
				assert.NotContains(t, trans.GetMessage(id, 2, map[string]interface{}{"Count": 2}), "Translation missing", id)
			}

			for _, id := range []string{"run_usage", "plan_usage", "plan_empty", "config_usage", "undo_usage", "stats_usage", "ci_usage", "notify_usage"} {
				assert.NotContains(t, trans.GetMessage(id, 0, nil), "Translation missing", id)
			}
		})
	}
}
