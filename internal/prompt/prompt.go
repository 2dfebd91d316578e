// Package prompt builds the first user message of a run.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed task.tmpl
var defaultTask string

// Template renders task instructions for one CSV input. Templates see a single
// field, .CSV, holding the raw input text.
type Template struct {
	tmpl *template.Template
}

type data struct {
	CSV string
}

// Default returns the built-in data-analyst instructions.
func Default() *Template {
	return &Template{tmpl: template.Must(template.New("task").Option("missingkey=error").Parse(defaultTask))}
}

// Parse compiles text as a task template.
func Parse(text string) (*Template, error) {
	t, err := template.New("task").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse: %w", err)
	}
	return &Template{tmpl: t}, nil
}

// Load reads a task template from path. An empty path selects Default.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read %s: %w", path, err)
	}
	return Parse(string(b))
}

// Render produces the task text for csvText.
func (t *Template) Render(csvText string) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, data{CSV: csvText}); err != nil {
		return "", fmt.Errorf("prompt: render: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// InitialMessage is the text of a run's first user message: the task followed
// by the CSV it is about.
func InitialMessage(task, csvText string) string {
	return task + "\n\nHere is the CSV data to analyze:\n\n" + csvText
}
