package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn while stdout is redirected to a pipe and returns
// everything fn printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// ============================================================================
// Execute Tests
// ============================================================================

func TestExecute_UnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"pagechat", "bogus"}

	err := Execute()
	if err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
	if !strings.Contains(err.Error(), "unknown command: bogus") {
		t.Errorf("expected error to name the command, got %q", err.Error())
	}
}

func TestExecute_HelpVariants(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{"pagechat"}},
		{name: "help command", args: []string{"pagechat", "help"}},
		{name: "long flag", args: []string{"pagechat", "--help"}},
		{name: "short flag", args: []string{"pagechat", "-h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			var err error
			output := captureStdout(t, func() {
				err = Execute()
			})

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output, "pagechat serve") {
				t.Errorf("expected help output, got: %s", output)
			}
		})
	}
}

func TestExecute_VersionVariants(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name string
		args []string
	}{
		{name: "version command", args: []string{"pagechat", "version"}},
		{name: "long flag", args: []string{"pagechat", "--version"}},
		{name: "short flag", args: []string{"pagechat", "-v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			var err error
			output := captureStdout(t, func() {
				err = Execute()
			})

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output, "pagechat "+Version) {
				t.Errorf("expected version output, got: %s", output)
			}
		})
	}
}

// ============================================================================
// runHelp Tests
// ============================================================================

func TestRunHelp(t *testing.T) {
	output := captureStdout(t, runHelp)

	expectedStrings := []string{
		"pagechat - Chat with any web page",
		"pagechat serve [addr]",
		"pagechat mcp",
		"POST /query",
		"POST /reset",
		"GET  /",
		"GEMINI_API_KEY",
		"OPENAI_API_KEY",
		"PAGECHAT_PROVIDER",
		"DEBUG",
		"https://github.com/pagechat/pagechat",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected help output to contain %q", expected)
		}
	}
}

// ============================================================================
// runVersion Tests
// ============================================================================

func TestRunVersion(t *testing.T) {
	output := captureStdout(t, runVersion)

	expectedStrings := []string{
		"pagechat " + Version,
		"Build Time:",
		"Git Commit:",
		"Go Version:",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected version output to contain %q\nGot: %s", expected, output)
		}
	}
}
