package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Cozy Loft  ", want: "Cozy Loft"},
		{name: "multiple spaces between words", input: "Cozy    Loft", want: "Cozy Loft"},
		{name: "tabs and newlines", input: "Cozy\t\nLoft", want: "Cozy Loft"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Café & Spa™ ", want: "Café & Spa™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Host@Example.COM ", "host@example.com"},
		{"guest@example.com", "guest@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Beach  Front ", "beach front"},
		{"CABIN", "cabin"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.input); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{"  Cozy   Loft ", " Host@Example.COM ", " Beach  FRONT "}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		if got := TrimAndNormalize(once); got != once {
			t.Errorf("TrimAndNormalize not idempotent for %q: %q != %q", in, got, once)
		}
	}
}
