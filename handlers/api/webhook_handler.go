package api

import (
	"strings"

	"agendei.link/configs/configslog"
	"agendei.link/pkg/whatsapp"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// inboundMessage payload do webhook do gateway de mensagens.
type inboundMessage struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	IsGroup     bool   `json:"is_group"`
	FromMe      bool   `json:"from_me"`
}

// WebhookHandler recebe mensagens do canal de chat e devolve a resposta do
// motor de conversa.
type WebhookHandler struct {
	conversation services.IConversationService
	sender       whatsapp.Sender
}

// NewWebhookHandler cria o handler com as dependências informadas.
func NewWebhookHandler(conversation services.IConversationService, sender whatsapp.Sender) *WebhookHandler {
	return &WebhookHandler{conversation: conversation, sender: sender}
}

// HandleInbound POST /webhook/whatsapp
// Sempre responde 200 para o gateway não reentregar a mensagem; falhas são
// logadas.
func (h *WebhookHandler) HandleInbound(c *fiber.Ctx) error {
	var msg inboundMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payload inválido"})
	}
	if msg.FromMe || strings.TrimSpace(msg.Message) == "" || msg.PhoneNumber == "" {
		return c.JSON(fiber.Map{"ignored": true})
	}

	reply, err := h.conversation.HandleInbound(c.UserContext(), msg.PhoneNumber, msg.Message, msg.IsGroup)
	if err != nil {
		configslog.Log.Error("Webhook: processamento da mensagem falhou",
			zap.String("phone", msg.PhoneNumber), zap.Error(err))
		return c.JSON(fiber.Map{"ok": false})
	}
	if reply == "" {
		return c.JSON(fiber.Map{"ignored": true})
	}

	// Envio best-effort: a resposta também volta no corpo para o gateway.
	if h.sender != nil && h.sender.Configured() {
		if sendErr := h.sender.SendText(c.UserContext(), msg.PhoneNumber, reply); sendErr != nil {
			configslog.Log.Warn("Webhook: envio da resposta falhou",
				zap.String("phone", msg.PhoneNumber), zap.Error(sendErr))
		}
	}
	return c.JSON(fiber.Map{"ok": true, "reply": reply})
}
