package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/generation"
	"github.com/sweetpotato0/ai-uigen/preview"
	"github.com/sweetpotato0/ai-uigen/runner"
)

const sampleCode = `<!DOCTYPE html><html><head><title>Login</title><style>body{}</style></head>` +
	`<body><form><input id="u"><button>Sign in</button></form><img src="logo.png"></body></html>`

func sampleResult() *generation.Result {
	return &generation.Result{
		Code:                     sampleCode,
		AccessibilitySuggestions: []string{"Label the username input.", "Add alt text to the logo."},
	}
}

func TestWriteResult_Stdout(t *testing.T) {
	color.NoColor = true
	var stdout, stderr bytes.Buffer

	err := writeResult(&stdout, &stderr, sampleResult(), outputOptions{})
	require.NoError(t, err)

	assert.Equal(t, sampleCode+"\n", stdout.String())
	assert.Contains(t, stderr.String(), "Accessibility suggestions:")
	assert.Contains(t, stderr.String(), "  1. Label the username input.")
	assert.Contains(t, stderr.String(), "  2. Add alt text to the logo.")
	assert.Contains(t, stderr.String(), "title: Login")
	assert.Contains(t, stderr.String(), "self-contained")
	assert.Contains(t, stderr.String(), "1 image(s) without alt text")
}

func TestWriteResult_OutFile(t *testing.T) {
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "login.html")

	err := writeResult(&stdout, &stderr, sampleResult(), outputOptions{OutPath: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCode+"\n", string(data))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "wrote")
	assert.Contains(t, stderr.String(), path)
}

func TestWriteResult_JSON(t *testing.T) {
	color.NoColor = true
	var stdout, stderr bytes.Buffer

	err := writeResult(&stdout, &stderr, sampleResult(), outputOptions{JSON: true})
	require.NoError(t, err)

	var got generation.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, *sampleResult(), got)
	assert.NotContains(t, stdout.String(), `\u003c`, "HTML should not be escaped")
	assert.Empty(t, stderr.String())
}

func TestWriteResult_UnwritablePath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "out.html")

	err := writeResult(&stdout, &stderr, sampleResult(), outputOptions{OutPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
}

func TestFormatSuggestions_Empty(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "Accessibility suggestions:\n  (none)\n", formatSuggestions(nil))
}

func TestFormatSummary_ExternalAssets(t *testing.T) {
	color.NoColor = true
	out := formatSummary(&preview.Summary{
		ExternalAssets: []string{"https://cdn.example.com/app.js", "style.css"},
	})

	assert.Contains(t, out, "title: (untitled)")
	assert.Contains(t, out, "external assets: https://cdn.example.com/app.js, style.css")
	assert.NotContains(t, out, "self-contained")
}

func TestGenerateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty prompt", errorskg.ErrEmptyPrompt, runner.MessageEmptyPrompt},
		{"busy", errorskg.ErrBusy, "a generation is already in progress"},
		{"exhausted", &errorskg.RetriesExhaustedError{Attempts: 6, Last: errors.New("503")}, runner.MessageTerminalFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, generateError(tt.err), tt.want)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "generate", "mcp"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestGenerateCmd_RejectsBlankDescription(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"generate", "   "})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	assert.EqualError(t, err, runner.MessageEmptyPrompt)
}

func TestGenerateCmd_RequiresDescription(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"generate"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}
