package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gravitational/trace"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/paularlott/toon"
	"github.com/paularlott/toon/source"
	"github.com/paularlott/toon/tokens"
)

type document struct {
	name string
	node toon.Node
}

func readDocuments(c *config, stdin io.Reader, logger *slog.Logger) ([]document, error) {
	format, err := source.ParseFormat(c.Format)
	if err != nil {
		return nil, trace.BadParameter("%v", err)
	}

	if len(c.Files) == 0 {
		n, err := source.Decode(stdin, format)
		if err != nil {
			return nil, trace.Wrap(err, "reading stdin")
		}
		return []document{{name: "-", node: n}}, nil
	}

	docs := make([]document, 0, len(c.Files))
	for _, path := range c.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, trace.ConvertSystemError(err)
		}

		f := format
		if f == source.FormatAuto {
			f = source.FormatFromPath(path)
		}
		n, err := source.DecodeBytes(data, f)
		if err != nil {
			return nil, trace.Wrap(err, "reading %s", path)
		}
		logger.Debug("decoded document", "path", path, "kind", n.Kind())
		docs = append(docs, document{name: path, node: n})
	}
	return docs, nil
}

func (c *config) encodeOptions() *toon.EncodeOptions {
	return &toon.EncodeOptions{
		Indent:    c.Indent,
		Delimiter: c.delimiter(),
	}
}

// resolveColors decides whether encode output is coloured: always, never, or
// when w is a terminal.
func resolveColors(mode string, w io.Writer) *toon.Colors {
	switch mode {
	case "always":
		color.NoColor = false
		return toon.NewColors()
	case "never":
		return nil
	}

	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return toon.NewColors()
}

func encode(c *config, docs []document, w io.Writer, logger *slog.Logger) error {
	opts := c.encodeOptions()
	opts.Colors = resolveColors(c.Color, w)

	var mismatch *toon.InconsistentShapeError
	opts.OnShapeMismatch = func(err *toon.InconsistentShapeError) {
		if mismatch == nil {
			mismatch = err
		}
		logger.Warn("list of records written without table layout",
			"row", err.Index, "want", err.Want, "got", err.Got)
	}

	var buf strings.Builder
	enc := toon.NewEncoder(&buf, opts)
	for _, doc := range docs {
		if err := enc.Encode(doc.node); err != nil {
			return trace.Wrap(err, "encoding %s", doc.name)
		}
		if c.StrictTables && mismatch != nil {
			return trace.BadParameter("%s: %v", doc.name, mismatch)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return trace.Wrap(err)
}

func compare(c *config, docs []document, w io.Writer) error {
	p := message.NewPrinter(language.English)
	heading := color.New(color.Bold).SprintFunc()
	rule := strings.Repeat("=", 60)

	for _, doc := range docs {
		jsonText, err := source.ToJSON(doc.node, c.PrettyJSON)
		if err != nil {
			return trace.Wrap(err, "rendering %s as JSON", doc.name)
		}
		toonText, err := toon.EncodeWithOptions(doc.node, c.encodeOptions())
		if err != nil {
			return trace.Wrap(err, "encoding %s", doc.name)
		}

		report := tokens.Compare(string(jsonText), toonText)
		cost := report.Cost(c.PricePerMillion)
		projection := cost.Project(c.QueriesPerDay)

		p.Fprintln(w, rule)
		p.Fprintln(w, heading(doc.name))
		p.Fprintln(w, rule)
		p.Fprintf(w, "JSON:\n  - Characters: %d\n  - Est. Tokens: ~%d\n", report.JSONChars, report.JSONTokens)
		p.Fprintf(w, "TOON:\n  - Characters: %d\n  - Est. Tokens: ~%d\n", report.TOONChars, report.TOONTokens)
		p.Fprintf(w, "Savings:\n  - Character reduction: %.1f%%\n  - Est. token savings: ~%d tokens (%.1f%%)\n",
			report.Reduction(), report.TokenSavings(), report.TokenReduction())
		p.Fprintf(w, "Cost (@ $%.2f per 1M input tokens):\n  - JSON cost: $%.6f\n  - TOON cost: $%.6f\n  - Savings per query: $%.6f\n",
			c.PricePerMillion, cost.JSON, cost.TOON, cost.Savings)
		p.Fprintf(w, "Scaled savings (at %d queries/day):\n  - Daily: $%.2f\n  - Monthly: $%.2f\n  - Yearly: $%.2f\n",
			c.QueriesPerDay, projection.Daily, projection.Monthly, projection.Yearly)
	}
	return nil
}

const promptTemplate = `Analyze the following data and answer the question.

Data (TOON format):
%s

Question: %s

Please provide a detailed analysis.
`

func prompt(c *config, docs []document, w io.Writer) error {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		s, err := toon.EncodeWithOptions(doc.node, c.encodeOptions())
		if err != nil {
			return trace.Wrap(err, "encoding %s", doc.name)
		}
		parts = append(parts, s)
	}

	_, err := fmt.Fprintf(w, promptTemplate, strings.Join(parts, "\n\n"), c.Question)
	return trace.Wrap(err)
}
