package i18n

import (
	"os"
	"strings"
)

// DetectSystemLanguage detects the system language from environment
// variables. Returns "zh" for Chinese, "en" for English (default).
func DetectSystemLanguage() string {
	envVars := []string{
		"IPFS_DESKTOP_LANG", // App-specific override
		"LANG",
		"LC_ALL",
		"LC_MESSAGES",
		"LANGUAGE",
	}

	for _, env := range envVars {
		if val := os.Getenv(env); val != "" {
			return parseLocale(val)
		}
	}

	return "en"
}

// parseLocale extracts the language code from a locale string.
// Examples: "zh_CN.UTF-8" -> "zh", "en_US" -> "en"
func parseLocale(locale string) string {
	// Remove encoding suffix (e.g. ".UTF-8")
	if idx := strings.Index(locale, "."); idx != -1 {
		locale = locale[:idx]
	}

	// Get language part (before "_" or "-")
	locale = strings.ToLower(locale)
	if idx := strings.IndexAny(locale, "_-"); idx != -1 {
		locale = locale[:idx]
	}

	switch locale {
	case "zh", "cn", "chinese":
		return "zh"
	case "en", "english", "c", "posix":
		return "en"
	default:
		mu.RLock()
		_, ok := messages[locale]
		mu.RUnlock()
		if ok {
			return locale
		}
		return "en"
	}
}
