package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"agendei.link/models"
	"agendei.link/pkg/timeparse"
)

// bookingIntent tripla {data, hora, categoria} extraída do texto bruto.
// A extração é independente da resposta generativa: nenhuma decisão de
// agendamento vem do modelo.
type bookingIntent struct {
	Start        time.Time
	AgendaType   models.AgendaType
	ExplicitType bool
}

var (
	// 10/03 ou 10/03/2025
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	// 2025-03-10
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// 14:30, 14h30 ou 14h
	clockRe = regexp.MustCompile(`\b(\d{1,2})(?::|h)(\d{2})?\b`)

	onlineKeywordsRe  = regexp.MustCompile(`(?i)\b(online|reuni[aã]o|meet|virtual|v[ií]deo|chamada)\b`)
	inStoreKeywordsRe = regexp.MustCompile(`(?i)\b(loja|presencial|visita|f[ií]sico)\b`)

	relativeDateRe = regexp.MustCompile(`(?i)\b(hoje|amanh[aã]|depois de amanh[aã]|segunda|ter[cç]a|quarta|quinta|sexta|s[aá]bado|domingo|semana que vem|pr[oó]xima semana)\b`)

	cancelRe     = regexp.MustCompile(`(?i)\b(cancelar|cancela|desmarcar|desmarca)\b`)
	rescheduleRe = regexp.MustCompile(`(?i)\b(remarcar|remarca|reagendar|reagenda|adiar|mudar o hor[aá]rio)\b`)
	scheduleRe   = regexp.MustCompile(`(?i)\b(agendar|agenda|marcar|marca|hor[aá]rio|reservar)\b`)

	photoRe   = regexp.MustCompile(`(?i)\b(foto|fotos|imagem|imagens)\b`)
	serviceRe = regexp.MustCompile(`(?i)\b(conserto|or[cç]amento|manuten[cç][aã]o|reforma|instala[cç][aã]o|reparo)\b`)
)

// extractBookingIntent procura data e hora absolutas no texto. Exige ambas:
// linguagem relativa ("amanhã") nunca vira intenção — o motor pede formato
// absoluto em vez de adivinhar.
func extractBookingIntent(text string, now time.Time) (*bookingIntent, bool) {
	var year, month, day int
	switch {
	case isoDateRe.MatchString(text):
		m := isoDateRe.FindStringSubmatch(text)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	case slashDateRe.MatchString(text):
		m := slashDateRe.FindStringSubmatch(text)
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else {
			year = now.Year()
		}
	default:
		return nil, false
	}

	// A hora precisa vir depois (ou separada) da data para não reaproveitar
	// os mesmos dígitos; remove a data casada antes de procurar a hora.
	remainder := isoDateRe.ReplaceAllString(slashDateRe.ReplaceAllString(text, " "), " ")
	clock := clockRe.FindStringSubmatch(remainder)
	if clock == nil {
		return nil, false
	}
	hour, _ := strconv.Atoi(clock[1])
	minute := 0
	if clock[2] != "" {
		minute, _ = strconv.Atoi(clock[2])
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return nil, false
	}

	start := time.Date(year, time.Month(month), day, hour, minute, 0, 0, timeparse.Zone())
	// Sem ano explícito, uma data já passada refere-se ao próximo ano.
	if !slashDateContainsYear(text) && start.Before(now) {
		start = start.AddDate(1, 0, 0)
	}

	agendaType, explicit := categoryFromText(text)
	return &bookingIntent{Start: start, AgendaType: agendaType, ExplicitType: explicit}, true
}

func slashDateContainsYear(text string) bool {
	if isoDateRe.MatchString(text) {
		return true
	}
	m := slashDateRe.FindStringSubmatch(text)
	return m != nil && m[3] != ""
}

// categoryFromText categoria citada no texto; padrão histórico é visita à
// loja quando nada é dito.
func categoryFromText(text string) (models.AgendaType, bool) {
	if onlineKeywordsRe.MatchString(text) {
		return models.AgendaTypeOnline, true
	}
	if inStoreKeywordsRe.MatchString(text) {
		return models.AgendaTypeInStore, true
	}
	return models.AgendaTypeInStore, false
}

func hasRelativeDate(text string) bool   { return relativeDateRe.MatchString(text) }
func matchesCancellation(t string) bool  { return cancelRe.MatchString(t) }
func matchesReschedule(t string) bool    { return rescheduleRe.MatchString(t) }
func matchesScheduling(t string) bool    { return scheduleRe.MatchString(t) }
func mentionsPhotos(t string) bool       { return photoRe.MatchString(t) }
func extractServiceType(t string) string { return strings.ToLower(serviceRe.FindString(t)) }
