package i18n

import (
	"embed"

	jsoniter "github.com/json-iterator/go"
)

//go:embed locales/*.json
var localeFS embed.FS

var locales = map[string]map[string]string{}

func init() {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			panic(err)
		}
		table := map[string]string{}
		if err := jsoniter.Unmarshal(raw, &table); err != nil {
			panic(err)
		}
		locales[entry.Name()[:len(entry.Name())-len(".json")]] = table
	}
}

// Localize resolves a string by key for the given language, falling back
// to English, then to an empty string for unknown keys.
func Localize(key, language string) string {
	if table, ok := locales[language]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	return locales["en"][key]
}
