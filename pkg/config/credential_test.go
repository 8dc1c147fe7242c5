package config

import "testing"

func TestIsCredentialConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"blank", "   \t", false},
		{"portuguese placeholder", "sua_chave_api_aqui", false},
		{"english placeholder", "your_api_key_here", false},
		{"placeholder upper case", "YOUR_API_KEY_HERE", false},
		{"marker inside value", "<SUA_API_KEY>", false},
		{"english marker inside value", "replace-YOUR_API_KEY", false},
		{"real looking key", "AIzaSyD-example-123", true},
		{"real key with padding", "  AIzaSyD-example-123  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCredentialConfigured(tt.key); got != tt.want {
				t.Errorf("IsCredentialConfigured(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestMaskCredential(t *testing.T) {
	if got := MaskCredential("AIzaSyD-example-123", 10); got != "AIzaSyD-ex..." {
		t.Errorf("unexpected mask: %q", got)
	}
	if got := MaskCredential("short", 10); got != "*****" {
		t.Errorf("unexpected mask for short key: %q", got)
	}
	if got := MaskCredential("", 10); got != "(empty)" {
		t.Errorf("unexpected mask for empty key: %q", got)
	}
}
