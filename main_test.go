package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI re-executes the test binary as the command with args and a broken
// OUTPUT_FORMAT in the environment.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=TestCLIHelper")
	cmd.Env = append(os.Environ(),
		"CLI_HELPER=1",
		"CLI_ARGS="+strings.Join(args, " "),
		"OUTPUT_FORMAT=pdf",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestCLIHelper(t *testing.T) {
	if os.Getenv("CLI_HELPER") != "1" {
		t.Skip("helper process")
	}
	os.Args = append([]string{"idn-statement-reader"}, strings.Fields(os.Getenv("CLI_ARGS"))...)
	main()
}

func TestCLI_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{"version", []string{"-version"}, false, "idn-statement-reader v" + version},
		{"help", []string{"-help"}, false, "Supported Layouts:"},
		{"no inputs", nil, false, "Usage:"},
		{"convert", []string{"statement.pdf"}, true, "Configuration error: OUTPUT_FORMAT must be xlsx or csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err, out)
			}
			assert.Contains(t, out, tt.want)
		})
	}
}
