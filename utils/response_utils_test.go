package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func TestEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"videoId": "v1", "success": "overridden"})
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusNotFound, "Video not found")
	})

	tests := []struct {
		path   string
		status int
		want   map[string]any
	}{
		{"/ok", 201, map[string]any{"success": "overridden", "videoId": "v1"}},
		{"/fail", 404, map[string]any{"success": false, "error": "Video not found"}},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status %d", tt.path, resp.StatusCode)
		}
		raw, _ := io.ReadAll(resp.Body)
		var got map[string]any
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("%s: %s = %v, want %v", tt.path, k, got[k], v)
			}
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	type req struct {
		Feedback string `validate:"required,max=5"`
	}
	err := validator.New().Struct(req{Feedback: "too long"})
	msgs := FormatValidationErrors(err)
	if len(msgs) != 1 || msgs[0] != "Field 'Feedback' failed on the 'max' tag (value: 5)" {
		t.Fatalf("msgs = %v", msgs)
	}
	if FormatValidationErrors(nil) != nil {
		t.Fatal("nil error should format to nil")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  make it shorter \n": "make it shorter",
		"a\x00b\x1bc":          "abc",
		"line1\nline2\tx":      "line1\nline2\tx",
		"":                     "",
	}
	for in, want := range tests {
		if got := SanitizeInput(in); got != want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
