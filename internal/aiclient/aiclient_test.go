package aiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		io.WriteString(w, `{"choices":[{"message":{"content":"hi there"}}]}`)
	}))
	defer srv.Close()

	c := NewAIClient(Options{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Logger: quietLogger()})
	out, err := c.Complete(context.Background(), Request{System: "sys", User: "usr", Temperature: 0.7, MaxTokens: 10})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("got %q", out)
	}
	if got["model"] != defaultModel {
		t.Fatalf("model = %v", got["model"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", got["messages"])
	}
}

func TestCompleteErrorStatusRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"bad key sk-secret-value"}`)
	}))
	defer srv.Close()

	c := NewAIClient(Options{APIKey: "sk-secret-value", BaseURL: srv.URL, Logger: quietLogger()})
	_, err := c.Complete(context.Background(), Request{User: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), "sk-secret-value") {
		t.Fatalf("key leaked in %q", err.Error())
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status in %q", err.Error())
	}
}

func TestCompleteContentParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"message":{"content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}}]}`)
	}))
	defer srv.Close()

	c := NewAIClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	out, err := c.Complete(context.Background(), Request{User: "x"})
	if err != nil || out != "ab" {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		array   bool
		want    string
		wantErr bool
	}{
		{"raw array", `[{"a":1}]`, true, `[{"a":1}]`, false},
		{"fenced array", "```json\n[1,2]\n```", true, `[1,2]`, false},
		{"prose array", "Here you go: [1] done", true, `[1]`, false},
		{"fenced object", "```\n{\"caption\":\"x\"}\n```", false, `{"caption":"x"}`, false},
		{"empty", "  ", false, "", true},
		{"no json", "sorry", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var err error
			if tt.array {
				got, err = ExtractJSONArray(tt.in)
			} else {
				got, err = ExtractJSONObject(tt.in)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestRedactSecrets(t *testing.T) {
	in := `Authorization: Bearer sk-abc; api_key=sk-abc`
	got := redactSecrets(in, "sk-abc")
	if strings.Contains(got, "sk-abc") {
		t.Fatalf("expected redaction, got %q", got)
	}
}
