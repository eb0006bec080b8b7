package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/unikit/regent/pkg/assistant"
	"github.com/unikit/regent/pkg/auth"
	"github.com/unikit/regent/pkg/classify"
	"github.com/unikit/regent/pkg/history"
	"github.com/unikit/regent/pkg/knowledge"
	"github.com/unikit/regent/pkg/ratelimit"
)

type stubAnswerer struct {
	calls     int
	lastToken string
	err       error
	exchanges []history.Exchange
}

func (s *stubAnswerer) Answer(ctx context.Context, token, question, level string) (*assistant.Response, error) {
	s.calls++
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return &assistant.Response{
		Answer:   "42",
		Category: classify.CategoryHandbook,
		Context:  []string{"chunk"},
	}, nil
}

func (s *stubAnswerer) History(ctx context.Context, token string) ([]history.Exchange, error) {
	s.lastToken = token
	return s.exchanges, nil
}

func newTestServer(t *testing.T, answerer Answerer, admission ratelimit.Admission) http.Handler {
	t.Helper()
	authenticator, err := auth.New("secret-token")
	if err != nil {
		t.Fatalf("auth.New failed: %v", err)
	}
	if admission == nil {
		admission = ratelimit.New(100, time.Minute)
	}
	return NewServer(answerer, authenticator, admission, nil).Handler()
}

func askBody() *strings.Reader {
	return strings.NewReader(`{"question":"When are exams?","level":"ug"}`)
}

func TestHealthUnauthenticated(t *testing.T) {
	handler := newTestServer(t, &stubAnswerer{}, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAskRequiresToken(t *testing.T) {
	answerer := &stubAnswerer{}
	handler := newTestServer(t, answerer, nil)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic secret-token",
		"wrong token":    "Bearer not-the-secret",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodPost, "/ask", askBody())
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("%s: missing WWW-Authenticate header", name)
		}
	}
	if answerer.calls != 0 {
		t.Errorf("handler ran %d times behind failed auth", answerer.calls)
	}
}

func TestAskHappyPath(t *testing.T) {
	answerer := &stubAnswerer{}
	handler := newTestServer(t, answerer, nil)

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody())
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp assistant.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Answer != "42" || resp.Category != classify.CategoryHandbook {
		t.Errorf("unexpected response: %+v", resp)
	}
	if answerer.lastToken != "secret-token" {
		t.Errorf("handler saw token %q", answerer.lastToken)
	}
}

func TestAskValidation(t *testing.T) {
	handler := newTestServer(t, &stubAnswerer{}, nil)

	cases := map[string]string{
		"empty question": `{"question":"  ","level":"ug"}`,
		"malformed json": `{"question":`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer secret-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestAskMissingLevel(t *testing.T) {
	answerer := &stubAnswerer{err: knowledge.ErrLevelRequired}
	handler := newTestServer(t, answerer, nil)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"When are exams?"}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Reason != "invalid_level" {
		t.Errorf("reason = %q, want invalid_level", resp.Reason)
	}
}

func TestAskRateLimited(t *testing.T) {
	answerer := &stubAnswerer{}
	handler := newTestServer(t, answerer, ratelimit.New(2, time.Minute))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/ask", askBody())
		req.Header.Set("Authorization", "Bearer secret-token")
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if answerer.calls != 2 {
		t.Errorf("handler ran %d times, want 2", answerer.calls)
	}
}

func TestHistory(t *testing.T) {
	answerer := &stubAnswerer{exchanges: []history.Exchange{
		{Question: "Q1", Answer: "A1"},
	}}
	handler := newTestServer(t, answerer, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(resp.Exchanges) != 1 || resp.Exchanges[0].Question != "Q1" {
		t.Errorf("unexpected exchanges: %+v", resp.Exchanges)
	}
}

func TestHistoryEmptyIsArray(t *testing.T) {
	handler := newTestServer(t, &stubAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"exchanges":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}
