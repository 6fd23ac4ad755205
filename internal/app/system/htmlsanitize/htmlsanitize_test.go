package htmlsanitize_test

import (
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	result := htmlsanitize.Sanitize("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	result := htmlsanitize.Sanitize("Hello, World!")
	if result != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	result := htmlsanitize.Sanitize(input)
	if result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	result := htmlsanitize.Sanitize(input)
	if result == input {
		t.Error("expected onclick attribute to be removed")
	}
}

func TestPlainText_StripsAllMarkup(t *testing.T) {
	input := "<p><strong>Done:</strong> deploy <em>v2</em></p>"
	result := htmlsanitize.PlainText(input)
	if result != "Done: deploy v2" {
		t.Errorf("expected markup stripped, got %q", result)
	}
}

func TestPlainText_KeepsJapaneseText(t *testing.T) {
	input := "本日の作業メモ"
	result := htmlsanitize.PlainText(input)
	if result != input {
		t.Errorf("expected text unchanged, got %q", result)
	}
}
