package models

import "strings"

// AgendaType categoria de agendamento. Agendas de categorias diferentes podem
// se sobrepor no tempo; conflitos só existem dentro da mesma categoria.
type AgendaType string

const (
	AgendaTypeOnline  AgendaType = "online"
	AgendaTypeInStore AgendaType = "in_store"
)

// Grafias legadas e sinônimos aceitos na entrada e presentes em registros
// históricos do banco.
var agendaTypeSynonyms = map[string]AgendaType{
	"online":     AgendaTypeOnline,
	"reuniao":    AgendaTypeOnline,
	"reunião":    AgendaTypeOnline,
	"meet":       AgendaTypeOnline,
	"meeting":    AgendaTypeOnline,
	"virtual":    AgendaTypeOnline,
	"video":      AgendaTypeOnline,
	"vídeo":      AgendaTypeOnline,
	"in_store":   AgendaTypeInStore,
	"loja":       AgendaTypeInStore,
	"visita":     AgendaTypeInStore,
	"presencial": AgendaTypeInStore,
	"fisico":     AgendaTypeInStore,
	"físico":     AgendaTypeInStore,
}

// NormalizeAgendaType reduz qualquer grafia conhecida à forma canônica.
// Entrada desconhecida cai na categoria presencial, com ok=false para o
// chamador decidir se rejeita.
func NormalizeAgendaType(raw string) (AgendaType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return AgendaTypeInStore, false
	}
	if canonical, ok := agendaTypeSynonyms[key]; ok {
		return canonical, true
	}
	return AgendaTypeInStore, false
}

// Synonyms todas as grafias que resolvem para esta categoria, incluindo a
// canônica. Usado nas cláusulas IN das consultas de conflito, para que
// registros legados nunca escapem da checagem.
func (t AgendaType) Synonyms() []string {
	out := make([]string, 0, len(agendaTypeSynonyms))
	for raw, canonical := range agendaTypeSynonyms {
		if canonical == t {
			out = append(out, raw)
		}
	}
	return out
}

// Label descrição humana da categoria, usada nas mensagens de confirmação.
func (t AgendaType) Label() string {
	if t == AgendaTypeOnline {
		return "reunião online"
	}
	return "visita à loja"
}
