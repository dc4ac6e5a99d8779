package utils

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hola, quería confirmar...", "Hola, quería confirmar..."},
		{"<b>Hola</b>\n\n  mundo", "Hola mundo"},
		{"Tom & Jerry <script>alert(1)</script>", "Tom & Jerry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
