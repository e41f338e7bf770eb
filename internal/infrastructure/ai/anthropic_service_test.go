package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/infrastructure/ai"
)

func fakeAnthropic(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req["model"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func textReply(text string) map[string]any {
	return map[string]any{"content": []map[string]any{{"type": "text", "text": text}}}
}

func TestSuggestHSN_ParseaRespuestaConMarkdown(t *testing.T) {
	srv := fakeAnthropic(t, http.StatusOK, textReply("```json\n{\"hsn_code\":\"7323\",\"tax_rate\":18,\"confidence_score\":0.82,\"reasoning\":\"Steel tableware\"}\n```"))
	svc := ai.NewAnthropicService("test-key", "claude-test", ai.WithURL(srv.URL))

	res, err := svc.SuggestHSN(context.Background(), "Steel Bottle", "1L insulated")
	require.NoError(t, err)
	assert.Equal(t, "7323", res.HSNCode)
	assert.Equal(t, "18", res.TaxRate.String())
	assert.InDelta(t, 0.82, res.ConfidenceScore, 1e-9)
	assert.Equal(t, "Steel tableware", res.Reasoning)
}

func TestSuggestHSN_TextoAlrededorDelJSON(t *testing.T) {
	srv := fakeAnthropic(t, http.StatusOK, textReply(`Sure: {"hsn_code":"998314","tax_rate":18,"confidence_score":0.7,"reasoning":"IT services"} hope it helps`))
	svc := ai.NewAnthropicService("test-key", "claude-test", ai.WithURL(srv.URL))

	res, err := svc.SuggestHSN(context.Background(), "Website maintenance", "")
	require.NoError(t, err)
	assert.Equal(t, "998314", res.HSNCode)
}

func TestSuggestHSN_Errores(t *testing.T) {
	ctx := context.Background()

	_, err := ai.NewAnthropicService("", "claude-test").SuggestHSN(ctx, "x", "")
	assert.Error(t, err)

	srv := fakeAnthropic(t, http.StatusUnauthorized, map[string]any{"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"}})
	_, err = ai.NewAnthropicService("test-key", "claude-test", ai.WithURL(srv.URL)).SuggestHSN(ctx, "x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")

	srv = fakeAnthropic(t, http.StatusOK, textReply("no lo sé"))
	_, err = ai.NewAnthropicService("test-key", "claude-test", ai.WithURL(srv.URL)).SuggestHSN(ctx, "x", "")
	assert.Error(t, err)
}
