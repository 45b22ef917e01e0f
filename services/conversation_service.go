package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/assistant"
	"agendei.link/pkg/timeparse"
	"agendei.link/repositories"

	"go.uber.org/zap"
)

// systemPrompt orienta o tom do assistente. A resposta gerada é só texto de
// conversa: confirmações e rejeições de agendamento são sempre sobrescritas
// pelo pipeline determinístico.
const systemPrompt = `Você é o assistente virtual de uma assistência técnica.
Seja cordial e objetivo, em português. Ajude o cliente com dúvidas sobre
serviços, orçamentos e agendamentos. Nunca confirme data ou horário de
agendamento por conta própria: o sistema envia a confirmação oficial.`

const (
	fallbackReply   = "Certo! Como posso ajudar? Se quiser agendar um horário, me informe a data e a hora."
	maxHistoryTurns = 40
	historyWindow   = 12
)

// IConversationService processa mensagens recebidas do canal de chat.
type IConversationService interface {
	HandleInbound(ctx context.Context, phoneNumber, text string, isGroup bool) (string, error)
}

// ConversationService máquina de estados por sessão sobre o fluxo de
// agendamento. A propriedade central: o gerador probabilístico de texto nunca
// afirma um resultado de agendamento que o caminho determinístico não
// produziu — quando há tentativa de agendamento, a resposta é substituída
// por mensagem templada.
type ConversationService struct {
	sessions     repositories.ISessionRepository
	appointments repositories.IAppointmentRepository
	booking      IBookingService
	assistant    assistant.Client

	// Serializa o processamento por telefone para mensagens concorrentes do
	// mesmo número não intercalarem escritas de estado/metadata.
	locks sync.Map // telefone -> *sync.Mutex
}

// NewConversationService cria o motor de conversa com dependências explícitas.
func NewConversationService(sessions repositories.ISessionRepository, appointments repositories.IAppointmentRepository, booking IBookingService, ai assistant.Client) *ConversationService {
	return &ConversationService{
		sessions:     sessions,
		appointments: appointments,
		booking:      booking,
		assistant:    ai,
	}
}

func (s *ConversationService) lockFor(phoneNumber string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(phoneNumber, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleInbound processa uma mensagem e devolve a resposta a enviar.
// Mensagens de grupo são ignoradas por política (resposta vazia).
func (s *ConversationService) HandleInbound(ctx context.Context, phoneNumber, text string, isGroup bool) (string, error) {
	if isGroup {
		return "", nil
	}
	mu := s.lockFor(phoneNumber)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessions.FindOrCreateByPhone(ctx, phoneNumber)
	if err != nil {
		return "", err
	}
	if session.Metadata == nil {
		session.Metadata = models.JSONMap{}
	}
	appendHistory(session, "user", text)
	now := time.Now().In(timeparse.Zone())

	// Resposta generativa primeiro; falha aqui nunca bloqueia o fluxo
	// determinístico.
	reply := s.generativeReply(ctx, session)

	s.advanceState(session, text)

	// Pipeline determinístico sobre o texto bruto do usuário.
	switch {
	case matchesCancellation(text):
		reply = s.handleCancellation(ctx, session, phoneNumber, reply)
	default:
		if intent, ok := extractBookingIntent(text, now); ok {
			if matchesReschedule(text) {
				reply = s.handleReschedule(ctx, session, phoneNumber, intent)
			} else {
				reply = s.handleBooking(ctx, session, phoneNumber, intent)
			}
		} else if hasRelativeDate(text) {
			// Linguagem relativa sem data absoluta: pede formato inequívoco
			// em vez de adivinhar.
			reply = "Para agendar, me informe a data e o horário exatos no formato DD/MM/AAAA HH:MM (por exemplo: 10/03/2025 14:00). Prefere atendimento online ou na loja?"
			session.State = models.SessionStateScheduling
		}
	}

	appendHistory(session, "assistant", reply)
	if err := s.sessions.Save(ctx, session); err != nil {
		configslog.Log.Error("Falha ao salvar sessão", zap.String("phone", phoneNumber), zap.Error(err))
	}
	return reply, nil
}

// generativeReply chama o colaborador generativo com o histórico recente.
func (s *ConversationService) generativeReply(ctx context.Context, session *models.Session) string {
	if s.assistant == nil {
		return fallbackReply
	}
	history := historyFromSession(session)
	messages := make([]assistant.Message, 0, historyWindow+1)
	messages = append(messages, assistant.Message{Role: "system", Content: systemPrompt})
	startIdx := 0
	if len(history) > historyWindow {
		startIdx = len(history) - historyWindow
	}
	messages = append(messages, history[startIdx:]...)

	reply, err := s.assistant.Reply(ctx, messages)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil && !errors.Is(err, assistant.ErrNotConfigured) {
			configslog.Log.Warn("Assistente generativo falhou, usando resposta padrão", zap.Error(err))
		}
		return fallbackReply
	}
	return reply
}

// handleBooking tenta o agendamento e SUBSTITUI a resposta gerada por uma
// mensagem determinística de confirmação ou rejeição.
func (s *ConversationService) handleBooking(ctx context.Context, session *models.Session, phoneNumber string, intent *bookingIntent) string {
	serviceType, _ := session.Metadata[models.MetaServiceType].(string)
	summary := "Atendimento via WhatsApp"
	if serviceType != "" {
		summary = "Atendimento: " + serviceType
	}

	result, err := s.booking.CreateBooking(ctx, BookingRequest{
		Summary:     summary,
		Description: fmt.Sprintf("Agendado pelo assistente para o número %s", phoneNumber),
		StartTime:   intent.Start,
		AgendaType:  string(intent.AgendaType),
		PhoneNumber: phoneNumber,
	})
	if err != nil {
		session.State = models.SessionStateScheduling
		return bookingRejectionMessage(err)
	}

	session.State = models.SessionStateCompleted
	session.Metadata[models.MetaLastAppointmentID] = result.Appointment.ID
	return bookingConfirmationMessage(result)
}

// handleReschedule remarca o último agendamento confirmado do número.
func (s *ConversationService) handleReschedule(ctx context.Context, session *models.Session, phoneNumber string, intent *bookingIntent) string {
	id, ok := s.lastAppointmentID(ctx, session, phoneNumber)
	if !ok {
		return "Não encontrei um agendamento ativo para remarcar. Quer criar um novo? Me informe a data e o horário no formato DD/MM/AAAA HH:MM."
	}
	updated, err := s.booking.UpdateBooking(ctx, id, BookingUpdate{StartTime: intent.Start})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return "Não encontrei um agendamento ativo para remarcar. Quer criar um novo? Me informe a data e o horário no formato DD/MM/AAAA HH:MM."
		}
		session.State = models.SessionStateScheduling
		return bookingRejectionMessage(err)
	}
	session.State = models.SessionStateCompleted
	return fmt.Sprintf("✅ Remarcado! Seu atendimento (%s) agora é %s.",
		updated.AgendaType.Label(), formatSlotTime(updated.StartTime))
}

// handleCancellation cancela o último agendamento e PREPENDE a confirmação
// determinística à resposta gerada.
func (s *ConversationService) handleCancellation(ctx context.Context, session *models.Session, phoneNumber, reply string) string {
	id, ok := s.lastAppointmentID(ctx, session, phoneNumber)
	if !ok {
		return "Não encontrei um agendamento ativo no seu número para cancelar."
	}
	if err := s.booking.CancelBooking(ctx, id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return "Não encontrei um agendamento ativo no seu número para cancelar."
		}
		configslog.Log.Error("Cancelamento via chat falhou", zap.Uint("id", id), zap.Error(err))
		return "Não consegui cancelar seu agendamento agora. Tente novamente em instantes, por favor."
	}
	delete(session.Metadata, models.MetaLastAppointmentID)
	session.State = models.SessionStateCollectingInfo
	return "✅ Agendamento cancelado com sucesso.\n\n" + reply
}

// lastAppointmentID busca o último agendamento confirmado: primeiro no
// metadata da sessão, depois no banco pelo telefone.
func (s *ConversationService) lastAppointmentID(ctx context.Context, session *models.Session, phoneNumber string) (uint, bool) {
	switch v := session.Metadata[models.MetaLastAppointmentID].(type) {
	case uint:
		return v, true
	case int:
		if v > 0 {
			return uint(v), true
		}
	case float64: // jsonb devolve números como float64
		if v > 0 {
			return uint(v), true
		}
	}
	appointment, err := s.appointments.FindLatestByPhone(ctx, phoneNumber)
	if err != nil {
		return 0, false
	}
	return appointment.ID, true
}

// advanceState heurísticas de transição sobre a última mensagem. Nenhum
// estado é terminal: qualquer mensagem pode reabrir coleta ou agendamento.
func (s *ConversationService) advanceState(session *models.Session, text string) {
	if serviceType := extractServiceType(text); serviceType != "" {
		session.Metadata[models.MetaServiceType] = serviceType
		session.State = models.SessionStateCollectingInfo
		return
	}
	switch {
	case matchesScheduling(text):
		session.State = models.SessionStateScheduling
	case mentionsPhotos(text):
		session.State = models.SessionStateWaitingPhotos
	case session.State == models.SessionStateInitial:
		session.State = models.SessionStateClassifying
	case session.State == models.SessionStateClassifying:
		session.State = models.SessionStateCollectingInfo
	}
}

// bookingConfirmationMessage confirmação templada com horário e link.
func bookingConfirmationMessage(result *BookingResult) string {
	a := result.Appointment
	msg := fmt.Sprintf("✅ Agendamento confirmado!\n%s em %s.",
		strings.ToUpper(a.AgendaType.Label()[:1])+a.AgendaType.Label()[1:],
		formatSlotTime(a.StartTime))
	if result.EventLink != "" {
		msg += "\nDetalhes: " + result.EventLink
	}
	return msg
}

// bookingRejectionMessage rejeição templada com motivo e até duas
// alternativas.
func bookingRejectionMessage(err error) string {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		msg := "⛔ Esse horário já está ocupado."
		limit := len(conflictErr.Alternatives)
		if limit > 2 {
			limit = 2
		}
		if limit > 0 {
			msg += " Horários disponíveis:"
			for _, slot := range conflictErr.Alternatives[:limit] {
				msg += "\n• " + formatSlotTime(slot.Start)
			}
			msg += "\nResponda com a data e o horário desejados."
		} else {
			msg += " Não encontrei alternativas próximas; proponha outra data."
		}
		return msg
	case errors.Is(err, ErrBookingOutsideHours):
		return "⛔ Esse horário fica fora do nosso expediente (segunda a sexta, das 08:00 às 18:00). Pode escolher outro?"
	case errors.Is(err, ErrBookingValidation):
		return "Não consegui entender a data e o horário. Me informe no formato DD/MM/AAAA HH:MM, por favor."
	default:
		configslog.Log.Error("Agendamento via chat falhou", zap.Error(err))
		return "Não consegui concluir seu agendamento agora. Tente novamente em instantes, por favor."
	}
}

func formatSlotTime(t time.Time) string {
	return t.In(timeparse.Zone()).Format("02/01/2006 às 15:04")
}

// appendHistory acumula o turno no metadata, limitado aos últimos turnos.
func appendHistory(session *models.Session, role, content string) {
	history, _ := session.Metadata[models.MetaHistory].(models.JSONSlice)
	if history == nil {
		// jsonb pode devolver []any simples
		if raw, ok := session.Metadata[models.MetaHistory].([]any); ok {
			history = models.JSONSlice(raw)
		}
	}
	history = append(history, map[string]any{"role": role, "content": content})
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	session.Metadata[models.MetaHistory] = history
}

// historyFromSession reconstrói o histórico tipado a partir do metadata.
func historyFromSession(session *models.Session) []assistant.Message {
	raw, ok := session.Metadata[models.MetaHistory].(models.JSONSlice)
	if !ok {
		if plain, okPlain := session.Metadata[models.MetaHistory].([]any); okPlain {
			raw = models.JSONSlice(plain)
		}
	}
	messages := make([]assistant.Message, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		if role == "" || content == "" {
			continue
		}
		messages = append(messages, assistant.Message{Role: role, Content: content})
	}
	return messages
}

var _ IConversationService = (*ConversationService)(nil)
