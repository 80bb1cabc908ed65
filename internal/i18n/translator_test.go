package i18n

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

func TestEmbeddedCatalogsShareKeys(t *testing.T) {
	tr, err := NewTranslator(nil)
	require.NoError(t, err)

	en := tr.Keys(English)
	sort.Strings(en)
	require.NotEmpty(t, en)
	for _, lang := range []Language{Spanish, French} {
		keys := tr.Keys(lang)
		sort.Strings(keys)
		assert.Equal(t, en, keys, "catalog %s", lang)
	}
}

func TestTranslatorRenders(t *testing.T) {
	tr, err := NewTranslator(nil)
	require.NoError(t, err)
	args := Args{"Name": "Jane Doe"}

	assert.Equal(t, "Thank you, Jane Doe! Your reservation is confirmed.", tr.T(English, "booking.confirmed", args))
	assert.Equal(t, "¡Gracias, Jane Doe! Su reserva está confirmada.", tr.T(Spanish, "booking.confirmed", args))
	assert.Equal(t, "Merci, Jane Doe ! Votre réservation est confirmée.", tr.T(French, "booking.confirmed", args))
}

func TestTranslatorConditionalSegments(t *testing.T) {
	tr, err := NewTranslator(nil)
	require.NoError(t, err)

	assert.Equal(t,
		"I could not find a confirmed reservation for that phone number.",
		tr.T(English, "cancel.not_found", Args{"Date": "", "Time": ""}))
	assert.Equal(t,
		"I could not find a confirmed reservation for that phone number on Monday, June 23, 2025 at 7:00 PM.",
		tr.T(English, "cancel.not_found", Args{"Date": "Monday, June 23, 2025", "Time": "7:00 PM"}))
}

func TestTranslatorFallbacks(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewTranslatorFromCatalogs(map[Language]map[string]string{
		English: {"greet": "Hello {{.Name}}", "only_en": "English only"},
		French:  {"greet": "Bonjour {{.Name}}"},
	}, logging.NewWithWriter("warn", &buf))
	require.NoError(t, err)

	assert.Equal(t, "Bonjour Ann", tr.T(French, "greet", Args{"Name": "Ann"}))
	assert.Equal(t, "English only", tr.T(French, "only_en", nil))
	assert.Equal(t, "Hello Ann", tr.T(Spanish, "greet", Args{"Name": "Ann"}))
	assert.True(t, tr.Has(French, "greet"))
	assert.False(t, tr.Has(French, "only_en"))

	assert.Equal(t, "nope", tr.T(English, "nope", nil))
	assert.Equal(t, "greet", tr.T(English, "greet", Args{}))
	assert.Contains(t, buf.String(), "i18n: render failed")
	assert.Contains(t, buf.String(), "i18n: missing message")
}

func TestTranslatorRejectsBadTemplate(t *testing.T) {
	_, err := NewTranslatorFromCatalogs(map[Language]map[string]string{
		English: {"broken": "Hello {{.Name"},
	}, nil)
	assert.Error(t, err)
}
