package errors

import (
	"strings"
	"testing"
)

func TestValidateLayerID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "A", false},
		{"uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false},
		{"with dot", "clip.intro", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "a/b", true},
		{"path traversal", "a..b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLayer) {
				t.Errorf("ValidateLayerID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidLayer)
			}
		})
	}
}

func TestValidateProjectID(t *testing.T) {
	if err := ValidateProjectID("demo"); err != nil {
		t.Errorf("ValidateProjectID(demo) = %v", err)
	}
	err := ValidateProjectID("../etc")
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateProjectID(../etc) = %v, want %v", err, ErrCodeInvalidInput)
	}
}

func TestValidateTrackID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"primary", "V1", false},
		{"overlay", "V2", false},
		{"named", "overlay-text_1", false},

		{"empty", "", true},
		{"leading dash", "-V1", true},
		{"space", "V 1", true},
		{"unicode", "Vü", true},
		{"too long", strings.Repeat("V", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrackID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTrackID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://cdn.example.com/clip.mp4", false},
		{"http", "http://example.com/a.png", false},
		{"file url", "file:///srv/media/a.png", false},
		{"relative path", "media/a.png", false},
		{"absolute path", "/srv/media/a.png", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com/a.png", true},
		{"javascript", "javascript://alert(1)", true},
		{"control char", "a\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "projects/demo.json", false},
		{"absolute", "/tmp/demo.json", false},

		{"empty", "", true},
		{"traversal", "../secret", true},
		{"null", "a\x00b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
