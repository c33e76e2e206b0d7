package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"valid key", "secret-key", "secret-key", http.StatusOK},
		{"wrong key", "secret-key", "wrong", http.StatusUnauthorized},
		{"missing key", "secret-key", "", http.StatusUnauthorized},
		{"unconfigured", "", "anything", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAPIKey(tt.configured)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/v1/search", nil)
			if tt.provided != "" {
				req.Header.Set(APIKeyHeader, tt.provided)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSessionTokens_IssueVerify(t *testing.T) {
	tokens := NewSessionTokens("test-secret", time.Hour)

	signed, err := tokens.Issue("session-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sessionID, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID != "session-abc" {
		t.Errorf("session ID = %q, expected %q", sessionID, "session-abc")
	}
}

func TestSessionTokens_WrongSecret(t *testing.T) {
	signed, err := NewSessionTokens("secret-a", time.Hour).Issue("session-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewSessionTokens("secret-b", time.Hour).Verify(signed); err == nil {
		t.Error("expected verification to fail with a different secret")
	}
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := NewSessionTokens("test-secret", -time.Minute)

	signed, err := tokens.Issue("session-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tokens.Verify(signed); err == nil {
		t.Error("expected verification to fail for an expired token")
	}
}

func TestRequireSession(t *testing.T) {
	tokens := NewSessionTokens("test-secret", time.Hour)
	signed, err := tokens.Issue("session-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var gotSession string
	handler := tokens.RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + signed, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", signed, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotSession != "session-abc" {
				t.Errorf("session from context = %q", gotSession)
			}
		})
	}
}
