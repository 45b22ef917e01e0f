// Package whatsapp envia mensagens de texto por um gateway HTTP no formato da
// Evolution API. O ciclo de vida da conexão (pareamento por QR) fica no
// gateway; aqui só existe a operação de envio.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"agendei.link/configs"
)

// ErrNotConfigured indica gateway sem URL/token.
var ErrNotConfigured = errors.New("gateway de whatsapp não configurado")

const sendTimeout = 15 * time.Second

// Sender contrato de envio consumido pelo webhook.
type Sender interface {
	Configured() bool
	SendText(ctx context.Context, phoneNumber, text string) error
}

// Client implementação HTTP de Sender.
type Client struct {
	httpClient *http.Client
	apiURL     string
	instance   string
	apiKey     string
}

// NewClient cria o cliente de envio; sem URL configurada ele fica inerte.
func NewClient(cfg configs.WhatsAppConfig) *Client {
	c := &Client{apiURL: cfg.APIURL, instance: cfg.Instance, apiKey: cfg.APIKey}
	if c.apiURL != "" {
		c.httpClient = &http.Client{Timeout: sendTimeout}
	}
	return c
}

// Configured informa se o gateway pode ser usado.
func (c *Client) Configured() bool { return c.httpClient != nil }

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText envia uma mensagem de texto para o número informado.
func (c *Client) SendText(ctx context.Context, phoneNumber, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(sendTextRequest{Number: phoneNumber, Text: text})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.apiURL, c.instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("envio de whatsapp: HTTP %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

var _ Sender = (*Client)(nil)
