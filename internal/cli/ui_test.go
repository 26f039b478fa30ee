package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStatus(t *testing.T) {
	buf := captureStdout(t)
	printSuccess("Rendered %s", "launch")
	printWarning("Nothing at %ss", "3")
	printError("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	for i, want := range []string{"Rendered launch", "Nothing at 3s", "failed"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		cached bool
		want   []string
	}{
		{"fresh", false, []string{"3 layers", "2 tracks", "video", "fresh"}},
		{"cached", true, []string{"cached"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			printStats(3, 2, "video", tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("stats %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestWriteToStdout(t *testing.T) {
	buf := captureStdout(t)
	if err := writeOutput("-", []byte("<svg/>")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<svg/>" {
		t.Errorf("stdout = %q", buf.String())
	}
}
