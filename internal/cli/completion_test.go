package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewCompletionCmd(t *testing.T) {
	rootCmd := &cobra.Command{Use: "cupv"}
	cmd := NewCompletionCmd(rootCmd)

	if cmd.Use != "completion [bash|zsh|fish|powershell]" {
		t.Errorf("Unexpected use string: %s", cmd.Use)
	}

	// Test generation
	shells := []string{"bash", "zsh", "fish", "powershell"}
	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{shell})
			err := cmd.Execute()
			if err != nil {
				t.Errorf("Failed to generate %s completion: %v", shell, err)
			}
			if buf.Len() == 0 {
				t.Errorf("%s completion is empty", shell)
			}
		})
	}

	t.Run("invalid shell", func(t *testing.T) {
		cmd.SetArgs([]string{"invalid"})
		err := cmd.Execute()
		if err == nil {
			t.Error("Expected error for invalid shell")
		}
	})
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "validate", "--format", ""}, []string{"text", "json", "markdown"}},
		{[]string{"__complete", "batch", "--log-level", ""}, []string{"debug", "warn"}},
		{[]string{"__complete", "batch", "--progress", ""}, []string{"auto", "simple", "none"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:3], " "), func(t *testing.T) {
			out, _, err := executeCommand(nil, tt.args...)
			if err != nil {
				t.Fatalf("completion failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in completions:\n%s", want, out)
				}
			}
		})
	}
}
