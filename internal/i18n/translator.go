package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator renders catalog messages. Messages are text/template strings
// executed with missingkey=error.
type Translator struct {
	catalogs map[Language]map[string]*template.Template
	logger   *logging.Logger
}

// NewTranslator loads the embedded catalogs.
func NewTranslator(logger *logging.Logger) (*Translator, error) {
	raw := make(map[Language]map[string]string, len(Supported))
	for _, lang := range Supported {
		data, err := localeFS.ReadFile(path.Join("locales", string(lang)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s catalog: %w", lang, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("i18n: decode %s catalog: %w", lang, err)
		}
		raw[lang] = messages
	}
	return NewTranslatorFromCatalogs(raw, logger)
}

// NewTranslatorFromCatalogs compiles in-memory catalogs.
func NewTranslatorFromCatalogs(raw map[Language]map[string]string, logger *logging.Logger) (*Translator, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Translator{catalogs: make(map[Language]map[string]*template.Template, len(raw)), logger: logger}
	for lang, messages := range raw {
		compiled := make(map[string]*template.Template, len(messages))
		for key, text := range messages {
			tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("i18n: parse %s/%s: %w", lang, key, err)
			}
			compiled[key] = tmpl
		}
		t.catalogs[lang] = compiled
	}
	return t, nil
}

// T renders key in lang. Keys missing from lang fall back to English; a key
// that cannot be rendered at all is returned as is.
func (t *Translator) T(lang Language, key string, data any) string {
	tmpl, ok := t.lookup(lang, key)
	if !ok {
		t.logger.Warn("i18n: missing message", "lang", lang, "key", key)
		return key
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.logger.Warn("i18n: render failed", "lang", lang, "key", key, "error", err)
		return key
	}
	return strings.TrimSpace(buf.String())
}

// Has reports whether lang defines key itself, without fallback.
func (t *Translator) Has(lang Language, key string) bool {
	_, ok := t.catalogs[lang][key]
	return ok
}

// Keys returns the keys defined for lang.
func (t *Translator) Keys(lang Language) []string {
	keys := make([]string, 0, len(t.catalogs[lang]))
	for k := range t.catalogs[lang] {
		keys = append(keys, k)
	}
	return keys
}

func (t *Translator) lookup(lang Language, key string) (*template.Template, bool) {
	if tmpl, ok := t.catalogs[lang][key]; ok {
		return tmpl, true
	}
	tmpl, ok := t.catalogs[English][key]
	return tmpl, ok
}

// Args is the data passed to a message.
type Args map[string]any
