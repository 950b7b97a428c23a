package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("ADPH_TEST_VALUE", "  console ")
	if got := Get("ADPH_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	t.Setenv("ADPH_TEST_VALUE", "   ")
	if got := Get("ADPH_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}

func TestIs(t *testing.T) {
	t.Setenv("LOG_FORMAT", "Console")
	if !Is("LOG_FORMAT", "console") {
		t.Fatal("expected case-insensitive match")
	}
	if Is("ADPH_UNSET_FOR_TEST", "console") {
		t.Fatal("expected unset key not to match")
	}
}
