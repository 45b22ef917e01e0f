// Package googlecalendar encapsula o CRUD de eventos na API REST v3 do
// Google Calendar, autenticado por conta de serviço (oauth2/google).
// O gateway é opcional: sem credenciais, toda operação falha com
// ErrNotConfigured e cabe ao chamador decidir se isso é fatal.
package googlecalendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"agendei.link/configs"

	"golang.org/x/oauth2/google"
)

// ErrNotConfigured indica ausência de credenciais/ID de calendário.
var ErrNotConfigured = errors.New("google calendar não configurado")

const (
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
	requestTimeout = 12 * time.Second
	calendarScope  = "https://www.googleapis.com/auth/calendar"
	// Propriedade privada que marca a categoria do agendamento no evento,
	// para o filtro de sobreposição por categoria.
	agendaTypeProperty = "agendaType"
)

// Event evento retornado pelo calendário, já com a categoria extraída.
type Event struct {
	ID          string
	Summary     string
	Description string
	HTMLLink    string
	Start       time.Time
	End         time.Time
	AgendaType  string
}

// EventInput campos aceitos na criação/atualização de um evento.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AgendaType  string
}

// Client contrato consumido pelos serviços de agendamento.
type Client interface {
	Configured() bool
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, in EventInput) error
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, start, end time.Time) ([]Event, error)
}

// Service implementação HTTP de Client.
type Service struct {
	httpClient *http.Client
	baseURL    string
	calendarID string
}

// NewService monta o cliente autenticado. Credenciais ausentes não são erro:
// o serviço volta em modo não configurado.
func NewService(cfg configs.CalendarConfig) (*Service, error) {
	if cfg.CredentialsFile == "" || cfg.CalendarID == "" {
		return &Service{baseURL: defaultBaseURL}, nil
	}
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("leitura das credenciais do calendário: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(raw, calendarScope)
	if err != nil {
		return nil, fmt.Errorf("credenciais do calendário inválidas: %w", err)
	}
	httpClient := jwtCfg.Client(context.Background())
	httpClient.Timeout = requestTimeout
	return &Service{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		calendarID: cfg.CalendarID,
	}, nil
}

// Configured informa se há credenciais carregadas.
func (s *Service) Configured() bool { return s.httpClient != nil }

type eventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventBody struct {
	Summary            string         `json:"summary,omitempty"`
	Description        string         `json:"description,omitempty"`
	Start              *eventDateTime `json:"start,omitempty"`
	End                *eventDateTime `json:"end,omitempty"`
	ExtendedProperties *struct {
		Private map[string]string `json:"private"`
	} `json:"extendedProperties,omitempty"`
}

type eventResponse struct {
	ID                 string        `json:"id"`
	Summary            string        `json:"summary"`
	Description        string        `json:"description"`
	HTMLLink           string        `json:"htmlLink"`
	Start              eventDateTime `json:"start"`
	End                eventDateTime `json:"end"`
	ExtendedProperties struct {
		Private map[string]string `json:"private"`
	} `json:"extendedProperties"`
}

type listResponse struct {
	Items []eventResponse `json:"items"`
}

func buildBody(in EventInput) eventBody {
	body := eventBody{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &eventDateTime{DateTime: in.Start.Format(time.RFC3339)},
		End:         &eventDateTime{DateTime: in.End.Format(time.RFC3339)},
	}
	if in.AgendaType != "" {
		body.ExtendedProperties = &struct {
			Private map[string]string `json:"private"`
		}{Private: map[string]string{agendaTypeProperty: in.AgendaType}}
	}
	return body
}

func toEvent(r eventResponse) Event {
	ev := Event{
		ID:          r.ID,
		Summary:     r.Summary,
		Description: r.Description,
		HTMLLink:    r.HTMLLink,
		AgendaType:  r.ExtendedProperties.Private[agendaTypeProperty],
	}
	if t, err := time.Parse(time.RFC3339, r.Start.DateTime); err == nil {
		ev.Start = t
	}
	if t, err := time.Parse(time.RFC3339, r.End.DateTime); err == nil {
		ev.End = t
	}
	return ev
}

// CreateEvent insere um evento e devolve o ID externo e o link.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events", s.baseURL, url.PathEscape(s.calendarID))
	var resp eventResponse
	if err := s.do(ctx, http.MethodPost, endpoint, buildBody(in), &resp); err != nil {
		return nil, err
	}
	ev := toEvent(resp)
	return &ev, nil
}

// UpdateEvent aplica um patch parcial em um evento existente.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, in EventInput) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		s.baseURL, url.PathEscape(s.calendarID), url.PathEscape(eventID))
	return s.do(ctx, http.MethodPatch, endpoint, buildBody(in), nil)
}

// DeleteEvent remove um evento. 404/410 são tratados como sucesso: o evento
// já não existe no calendário.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		s.baseURL, url.PathEscape(s.calendarID), url.PathEscape(eventID))
	err := s.do(ctx, http.MethodDelete, endpoint, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusGone) {
		return nil
	}
	return err
}

// ListEvents lista eventos no intervalo, expandindo recorrências e ordenando
// por início.
func (s *Service) ListEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("timeMin", start.Format(time.RFC3339))
	q.Set("timeMax", end.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s",
		s.baseURL, url.PathEscape(s.calendarID), q.Encode())

	var resp listResponse
	if err := s.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

// APIError resposta não-2xx da API do calendário.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google calendar: HTTP %d: %s", e.StatusCode, e.Body)
}

func (s *Service) do(ctx context.Context, method, endpoint string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ Client = (*Service)(nil)
