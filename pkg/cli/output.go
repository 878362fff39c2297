package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mercator-hq/tokenscope/pkg/i18n"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is localized plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value. "" means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (want text, json or csv)", s))
	}
}

// CountResult is the outcome of one count command.
type CountResult struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Images      int    `json:"images"`
	InputTokens int    `json:"input_tokens"`
	TotalTokens int    `json:"total_tokens"`
}

// ProviderRow is one line of the providers command.
type ProviderRow struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Models []string `json:"models"`
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as localized plain text. Numbers are
// grouped for the translation language ("1,500" in English).
type TextFormatter struct {
	Translations *i18n.Translations
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case *CountResult:
		return f.formatCount(w, v)
	case []ProviderRow:
		return f.formatProviders(w, v)
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

func (f *TextFormatter) formatCount(w io.Writer, r *CountResult) error {
	p := message.NewPrinter(f.language())
	header := r.Provider + " / " + r.Model
	if r.Images > 0 {
		header += " (" + f.plural("ImageCount", r.Images) + ")"
	}

	input := p.Sprintf("%d", r.InputTokens)
	total := p.Sprintf("%d", r.TotalTokens)

	lines := []string{
		header,
		f.message("InputTokens", "Input tokens: "+input, input),
		f.message("TotalTokens", "Total tokens: "+total, total),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func (f *TextFormatter) formatProviders(w io.Writer, rows []ProviderRow) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-10s %-18s %s\n", row.ID, row.Name, row.Status); err != nil {
			return err
		}
		for _, m := range row.Models {
			if _, err := fmt.Fprintf(w, "  - %s\n", m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *TextFormatter) language() language.Tag {
	if f.Translations == nil {
		return language.English
	}
	return f.Translations.Language()
}

func (f *TextFormatter) message(id, fallback, count string) string {
	if f.Translations == nil {
		return fallback
	}
	return f.Translations.Message(id, map[string]any{"Count": count})
}

func (f *TextFormatter) plural(id string, n int) string {
	if f.Translations == nil {
		if n == 1 {
			return "1 image"
		}
		return strconv.Itoa(n) + " images"
	}
	return f.Translations.Plural(id, n, map[string]any{"Count": n})
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats count results and provider rows as CSV with a
// header line.
type CSVFormatter struct{}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	csvWriter := csv.NewWriter(w)

	var records [][]string
	switch v := data.(type) {
	case *CountResult:
		records = [][]string{
			{"provider", "model", "images", "input_tokens", "total_tokens"},
			{v.Provider, v.Model, strconv.Itoa(v.Images), strconv.Itoa(v.InputTokens), strconv.Itoa(v.TotalTokens)},
		}
	case []ProviderRow:
		records = [][]string{{"id", "name", "status", "models"}}
		for _, row := range v {
			records = append(records, []string{row.ID, row.Name, row.Status, strings.Join(row.Models, " ")})
		}
	default:
		return fmt.Errorf("csv output is not supported for %T", data)
	}

	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat, tr *i18n.Translations) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{Translations: tr}
	}
}
