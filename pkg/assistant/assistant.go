// Package assistant encapsula o colaborador de texto generativo. A resposta
// é texto livre: nenhuma decisão de agendamento é extraída daqui — o motor de
// conversa decide de forma determinística e sobrescreve o texto quando
// necessário.
package assistant

import (
	"context"
	"errors"
	"time"

	"agendei.link/configs"

	openai "github.com/sashabaranov/go-openai"
)

// Message um turno da conversa enviado ao modelo.
type Message struct {
	Role    string // system, user ou assistant
	Content string
}

// Client contrato consumido pelo motor de conversa.
type Client interface {
	Reply(ctx context.Context, messages []Message) (string, error)
}

const replyTimeout = 20 * time.Second

// ErrNotConfigured indica ausência de chave de API.
var ErrNotConfigured = errors.New("assistente generativo não configurado")

// OpenAIClient implementação sobre a API de chat da OpenAI (ou provedor
// compatível via BaseURL).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient cria o cliente; retorna um cliente inerte quando não há
// chave configurada.
func NewOpenAIClient(cfg configs.OpenAIConfig) *OpenAIClient {
	if cfg.APIKey == "" {
		return &OpenAIClient{model: cfg.Model}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Reply gera uma resposta de texto livre a partir do histórico.
func (c *OpenAIClient) Reply(ctx context.Context, messages []Message) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("resposta vazia do modelo")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Client = (*OpenAIClient)(nil)
