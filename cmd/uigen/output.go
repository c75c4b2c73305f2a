package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sweetpotato0/ai-uigen/generation"
	"github.com/sweetpotato0/ai-uigen/preview"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorPrefix  = color.New(color.FgRed, color.Bold).SprintFunc()
)

type outputOptions struct {
	OutPath string
	JSON    bool
}

// writeResult sends the code (or the JSON result) to stdout or OutPath and
// the human-readable extras to stderr.
func writeResult(stdout, stderr io.Writer, result *generation.Result, opts outputOptions) error {
	var body []byte
	if opts.JSON {
		data, err := marshalResult(result)
		if err != nil {
			return err
		}
		body = data
	} else {
		body = []byte(result.Code)
		if !strings.HasSuffix(result.Code, "\n") {
			body = append(body, '\n')
		}
	}

	if opts.OutPath != "" {
		if err := os.WriteFile(opts.OutPath, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.OutPath, err)
		}
		fmt.Fprintf(stderr, "%s wrote %d bytes to %s\n", successColor("✓"), len(body), opts.OutPath)
	} else if _, err := stdout.Write(body); err != nil {
		return err
	}

	if opts.JSON {
		return nil
	}
	fmt.Fprint(stderr, formatSuggestions(result.AccessibilitySuggestions))
	if summary, err := preview.Summarize(result.Code); err == nil {
		fmt.Fprint(stderr, formatSummary(summary))
	}
	return nil
}

func marshalResult(result *generation.Result) ([]byte, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return []byte(b.String()), nil
}

func formatSuggestions(suggestions []string) string {
	var b strings.Builder
	b.WriteString(headerColor("Accessibility suggestions:"))
	b.WriteByte('\n')
	if len(suggestions) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	for i, s := range suggestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	return b.String()
}

func formatSummary(s *preview.Summary) string {
	var b strings.Builder
	b.WriteString(headerColor("Document:"))
	b.WriteByte('\n')
	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "  title: %s\n", title)
	fmt.Fprintf(&b, "  inline styles: %d, inline scripts: %d, interactive elements: %d\n",
		s.InlineStyles, s.InlineScripts, s.InteractiveTags)
	if s.SelfContained() {
		fmt.Fprintf(&b, "  %s\n", successColor("self-contained"))
	} else {
		fmt.Fprintf(&b, "  %s %s\n", warnColor("external assets:"), strings.Join(s.ExternalAssets, ", "))
	}
	if s.ImagesNoAlt > 0 {
		fmt.Fprintf(&b, "  %s %d image(s) without alt text\n", warnColor("warning:"), s.ImagesNoAlt)
	}
	return b.String()
}
