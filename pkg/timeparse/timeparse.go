// Package timeparse normaliza representações heterogêneas de data/hora em um
// instante absoluto único. Entradas com offset explícito são interpretadas
// literalmente; entradas "ingênuas" são lidas como hora civil no fuso fixo do
// negócio (UTC-3 por padrão, sem horário de verão). A aritmética nunca depende
// do fuso da máquina que executa.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ErrUnparseable indica entrada que nenhum layout conhecido reconhece.
// Chamadores devem tratar como falha de validação, nunca como pânico.
var ErrUnparseable = errors.New("data/hora não reconhecida")

var businessZone atomic.Pointer[time.Location]

func init() {
	SetZoneOffset(-3)
}

// SetZoneOffset redefine o fuso civil fixo do negócio (horas em relação ao
// UTC). Chamado uma única vez no boot a partir da configuração.
func SetZoneOffset(hours int) {
	name := fmt.Sprintf("UTC%+d", hours)
	businessZone.Store(time.FixedZone(name, hours*3600))
}

// Zone devolve o fuso civil fixo do negócio.
func Zone() *time.Location {
	return businessZone.Load()
}

// Layouts que carregam offset/zona explícita: interpretados literalmente.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// Layouts ingênuos: interpretados como hora civil no fuso do negócio.
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// Normalize converte time.Time ou string em um instante absoluto.
func Normalize(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, ErrUnparseable
		}
		return t, nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, ErrUnparseable
		}
		return *t, nil
	case string:
		return normalizeString(t)
	default:
		return time.Time{}, ErrUnparseable
	}
}

func normalizeString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	zone := Zone()
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// InBusinessZone reexprime o instante na hora civil do negócio.
func InBusinessZone(t time.Time) time.Time {
	return t.In(Zone())
}
