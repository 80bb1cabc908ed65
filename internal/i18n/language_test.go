package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{in: "en", want: English, ok: true},
		{in: "EN-us", want: English, ok: true},
		{in: "es_ES", want: Spanish, ok: true},
		{in: "fr-CH", want: French, ok: true},
		{in: "Español", want: Spanish, ok: true},
		{in: "espanol", want: Spanish, ok: true},
		{in: " Français ", want: French, ok: true},
		{in: "anglais", want: English, ok: true},
		{in: "de", ok: false},
		{in: "klingon", ok: false},
		{in: "", ok: false},
		{in: "-en", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
