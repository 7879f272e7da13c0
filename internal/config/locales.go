package config

import "log/slog"

const (
	LangEN = "en"
	LangES = "es"
)

func IsSupportedLanguage(lang string) bool {
	return lang == LangEN || lang == LangES
}

// GetLocaleConfig falls back to English for unsupported languages.
func GetLocaleConfig(lang string) string {
	if IsSupportedLanguage(lang) {
		return lang
	}
	slog.Warn("unsupported language, using English", "language", lang)
	return LangEN
}
