package i18n

import (
	"strings"
	"testing"
)

func TestForLanguage(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string // marker substring expected in Start
	}{
		{name: "russian", code: "ru", want: "Добро пожаловать"},
		{name: "english", code: "en", want: "Welcome"},
		{name: "english region", code: "en-US", want: "Welcome"},
		{name: "empty defaults to russian", code: "", want: "Добро пожаловать"},
		{name: "unknown defaults to russian", code: "zz", want: "Добро пожаловать"},
		{name: "garbage defaults to russian", code: "!!", want: "Добро пожаловать"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForLanguage(tt.code)
			if !strings.Contains(got.Start, tt.want) {
				t.Fatalf("ForLanguage(%q).Start = %q, want it to contain %q", tt.code, got.Start, tt.want)
			}
		})
	}
}

func TestFreeRemaining(t *testing.T) {
	texts := ForLanguage("en")
	if got := texts.FreeRemaining(2); !strings.HasSuffix(got, "2") {
		t.Fatalf("FreeRemaining(2) = %q", got)
	}
	if got := texts.FreeRemaining(0); got != texts.LastFree {
		t.Fatalf("FreeRemaining(0) = %q, want last-free notice", got)
	}
}
