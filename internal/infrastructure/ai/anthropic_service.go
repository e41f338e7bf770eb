// Package ai adaptadores de modelos de lenguaje para la clasificación HSN/SAC.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/ports"
)

var _ ports.LLMService = (*AnthropicService)(nil)

const (
	defaultMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion   = "2023-06-01"
	maxResponseBytes   = 64 * 1024

	hsnSystemPrompt = `You are an Indian GST classification expert.
Reply with ONLY a JSON object (no markdown) with exactly these fields:
{
  "hsn_code": "<HSN code of 4, 6 or 8 digits for goods, or SAC code starting with 99 for services>",
  "tax_rate": <GST rate as a number: 0, 0.25, 3, 5, 12, 18 or 28>,
  "confidence_score": <number between 0.0 and 1.0>,
  "reasoning": "<one short sentence, at most 200 characters>"
}
If unsure, use the closest 4-digit heading and lower the confidence.`
)

// AnthropicService implementa LLMService sobre la API Messages de Anthropic.
type AnthropicService struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// Option configuración opcional del adaptador.
type Option func(*AnthropicService)

// WithURL apunta a otro endpoint (proxy o servidor de pruebas).
func WithURL(u string) Option {
	return func(s *AnthropicService) { s.url = u }
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(s *AnthropicService) { s.httpClient = c }
}

// NewAnthropicService construye el adaptador. El caso de uso impone además su propio timeout.
func NewAnthropicService(apiKey, model string, opts ...Option) *AnthropicService {
	s := &AnthropicService{
		apiKey:     apiKey,
		model:      model,
		url:        defaultMessagesURL,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type hsnPayload struct {
	HSNCode         string          `json:"hsn_code"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	ConfidenceScore float64         `json:"confidence_score"`
	Reasoning       string          `json:"reasoning"`
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// SuggestHSN pide al modelo el código HSN/SAC y la tarifa GST del producto.
func (s *AnthropicService) SuggestHSN(ctx context.Context, productName, description string) (*dto.HSNSuggestionDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ai: ANTHROPIC_API_KEY no configurado")
	}

	user := "Product: " + productName
	if description != "" {
		user += "\nDescription: " + description
	}
	body, err := json.Marshal(messagesRequest{
		Model:     s.model,
		MaxTokens: 512,
		System:    hsnSystemPrompt,
		Messages:  []message{{Role: "user", Content: user}},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: crear request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ai: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ai: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("ai: leer respuesta: %w", err)
	}

	var parsed messagesResponse
	jsonErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode != http.StatusOK {
		if jsonErr == nil && parsed.Error != nil {
			return nil, fmt.Errorf("ai: anthropic %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return nil, fmt.Errorf("ai: anthropic HTTP %d", resp.StatusCode)
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("ai: deserializar respuesta: %w", jsonErr)
	}

	var text strings.Builder
	for _, c := range parsed.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	obj := extractJSON(text.String())
	if obj == "" {
		return nil, fmt.Errorf("ai: la respuesta no contiene JSON")
	}
	var p hsnPayload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return nil, fmt.Errorf("ai: parsear sugerencia: %w", err)
	}
	return &dto.HSNSuggestionDTO{
		HSNCode:         p.HSNCode,
		TaxRate:         p.TaxRate,
		ConfidenceScore: p.ConfidenceScore,
		Reasoning:       p.Reasoning,
	}, nil
}

// extractJSON quita cercos markdown y devuelve el primer objeto {...} del texto.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i != -1 {
		after := text[i+3:]
		if nl := strings.IndexByte(after, '\n'); nl != -1 {
			after = after[nl+1:]
		}
		if j := strings.LastIndex(after, "```"); j != -1 {
			after = after[:j]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonObjectRe.FindString(text))
}
