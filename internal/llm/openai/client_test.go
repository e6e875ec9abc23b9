package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/llm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// completion wraps content the way chat/completions does.
func completion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": content}}},
	}
}

func newServer(t *testing.T, status int, reply any, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{APIKey: "test-key", BaseURL: baseURL}, quietLogger())
}

const answer = `{"reasoning":"Dalton header, Nichols attn block.","data":{
 "company_name":{"value":"Dalton Electric","confidence":"high"},
 "contact_name":{"value":"Nathaniel Price","confidence":"high"},
 "email":{"value":null,"confidence":"none"},
 "phone":{"value":"301-236-0429","confidence":"high"},
 "website":{"value":"www.daltonelectric.net","confidence":"medium"},
 "trade":{"value":"Electrical","confidence":"high"},
 "client_info":{"company_name":"Nichols Contracting","contact_name":null,"email":null}}}`

func TestExtractFields(t *testing.T) {
	var seen map[string]any
	srv := newServer(t, http.StatusOK, completion(answer), &seen)
	c := newTestClient(srv.URL)

	x, raw, err := c.ExtractFields(context.Background(), llm.ExtractRequest{
		Text:     "DALTON ELECTRIC\nContact: Nathaniel Price",
		Method:   constants.MethodText,
		Filename: "Dalton.pdf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "Dalton Electric", x.Data.CompanyName.String())
	assert.Equal(t, entity.ConfidenceHigh, x.Data.Phone.Confidence)
	require.NotNil(t, x.Data.ClientInfo)
	assert.Equal(t, "Nichols Contracting", *x.Data.ClientInfo.CompanyName)

	assert.Equal(t, "gpt-4o", seen["model"])
	assert.EqualValues(t, 0, seen["temperature"])
	assert.Equal(t, map[string]any{"type": "json_object"}, seen["response_format"])
	msgs, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "[EXPLICIT CONTACT FOUND]: Nathaniel Price")
}

func TestExtractFieldsLenientRepair(t *testing.T) {
	loose := `{"reasoning":"r","data":{"company_name":"Dalton Electric","phone":{"value":"301-236-0429","confidence":"HIGH"}},"extra":true}`
	srv := newServer(t, http.StatusOK, completion(loose), nil)

	x, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "t", Filename: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, entity.ConfidenceMedium, x.Data.CompanyName.Confidence)
	assert.Equal(t, entity.ConfidenceHigh, x.Data.Phone.Confidence)
	assert.True(t, x.Data.Email.IsBlank())
}

func TestExtractFieldsErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := newServer(t, http.StatusUnauthorized, map[string]any{"error": "bad key"}, nil)
		_, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "t"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
	t.Run("no choices", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, map[string]any{"choices": []any{}}, nil)
		_, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "t"})
		assert.ErrorIs(t, err, ErrNoChoices)
	})
	t.Run("content not json", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, completion("sorry, I cannot help"), nil)
		_, _, err := newTestClient(srv.URL).ExtractFields(context.Background(), llm.ExtractRequest{Text: "t"})
		assert.Error(t, err)
	})
}

func TestExtractFieldsWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, quietLogger())
	assert.False(t, c.Configured())

	x, raw, err := c.ExtractFields(context.Background(), llm.ExtractRequest{Text: "t"})
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Equal(t, llm.ReasoningFailed, x.Reasoning)
	assert.True(t, x.Data.CompanyName.IsBlank())
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := newServer(t, http.StatusOK, completion(answer), nil)
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, RequestsPerMinute: 1}, quietLogger())

	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{Text: "t"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = c.ExtractFields(ctx, llm.ExtractRequest{Text: "t"})
	assert.ErrorIs(t, err, context.Canceled)
}
