package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAgendaType(t *testing.T) {
	cases := []struct {
		raw  string
		want AgendaType
		ok   bool
	}{
		{"online", AgendaTypeOnline, true},
		{"ONLINE", AgendaTypeOnline, true},
		{"  reuniao  ", AgendaTypeOnline, true},
		{"reunião", AgendaTypeOnline, true},
		{"meet", AgendaTypeOnline, true},
		{"virtual", AgendaTypeOnline, true},
		{"vídeo", AgendaTypeOnline, true},
		{"in_store", AgendaTypeInStore, true},
		{"loja", AgendaTypeInStore, true},
		{"visita", AgendaTypeInStore, true},
		{"presencial", AgendaTypeInStore, true},
		{"Físico", AgendaTypeInStore, true},
		{"", AgendaTypeInStore, false},
		{"telepatia", AgendaTypeInStore, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := NormalizeAgendaType(tc.raw)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

// Toda grafia conhecida resolve para exatamente uma categoria canônica, e a
// lista de sinônimos de cada categoria fecha o ciclo.
func TestSynonymsRoundTrip(t *testing.T) {
	for _, canonical := range []AgendaType{AgendaTypeOnline, AgendaTypeInStore} {
		synonyms := canonical.Synonyms()
		assert.Contains(t, synonyms, string(canonical), "a forma canônica é sinônimo de si mesma")
		for _, raw := range synonyms {
			got, ok := NormalizeAgendaType(raw)
			assert.True(t, ok, "sinônimo %q deve ser reconhecido", raw)
			assert.Equal(t, canonical, got)
		}
	}
}

func TestSynonymSetsAreDisjoint(t *testing.T) {
	online := AgendaTypeOnline.Synonyms()
	inStore := AgendaTypeInStore.Synonyms()
	for _, a := range online {
		assert.NotContains(t, inStore, a)
	}
}

func TestAgendaTypeLabel(t *testing.T) {
	assert.Equal(t, "reunião online", AgendaTypeOnline.Label())
	assert.Equal(t, "visita à loja", AgendaTypeInStore.Label())
}
