package main

import (
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gravitational/trace"
)

const (
	encodeCommand  = "encode"
	compareCommand = "compare"
	promptCommand  = "prompt"
)

func parseCLI(c *config, args []string) (string, error) {
	app := kingpin.New("toon", "Convert JSON and YAML documents to TOON for language model prompts")
	app.HelpFlag.Short('h')

	app.Flag("indent", "Spaces per indentation level").
		Default(strconv.Itoa(c.Indent)).
		IntVar(&c.Indent)
	app.Flag("delimiter", "Delimiter for inline lists and table rows (comma, tab, pipe or any text)").
		Short('d').
		Default(c.Delimiter).
		StringVar(&c.Delimiter)
	app.Flag("log-level", "Log level").
		Default(c.LogLevel).
		EnumVar(&c.LogLevel, "debug", "info", "warn", "error")

	encodeCmd := app.Command(encodeCommand, "Print documents as TOON").Default()
	encodeCmd.Flag("format", "Input format").Short('f').Default("auto").
		EnumVar(&c.Format, "auto", "json", "yaml")
	encodeCmd.Flag("strict-tables", "Fail when a list of records cannot be written as a table").
		BoolVar(&c.StrictTables)
	encodeCmd.Flag("color", "Colour the output").
		Default(c.Color).
		EnumVar(&c.Color, "auto", "always", "never")
	encodeCmd.Arg("files", "Input files, stdin when omitted").ExistingFilesVar(&c.Files)

	compareCmd := app.Command(compareCommand, "Compare the size and estimated cost of JSON and TOON")
	compareCmd.Flag("format", "Input format").Short('f').Default("auto").
		EnumVar(&c.Format, "auto", "json", "yaml")
	compareCmd.Flag("pretty", "Compare against indented JSON").BoolVar(&c.PrettyJSON)
	compareCmd.Flag("price", "Price per million input tokens").
		Default(strconv.FormatFloat(c.PricePerMillion, 'f', -1, 64)).
		Float64Var(&c.PricePerMillion)
	compareCmd.Flag("queries-per-day", "Query rate used to project savings").
		Default(strconv.Itoa(c.QueriesPerDay)).
		IntVar(&c.QueriesPerDay)
	compareCmd.Arg("files", "Input files, stdin when omitted").ExistingFilesVar(&c.Files)

	promptCmd := app.Command(promptCommand, "Wrap documents in an analysis prompt")
	promptCmd.Flag("question", "Question to ask about the data").Short('q').Required().
		StringVar(&c.Question)
	promptCmd.Flag("format", "Input format").Short('f').Default("auto").
		EnumVar(&c.Format, "auto", "json", "yaml")
	promptCmd.Arg("files", "Input files, stdin when omitted").ExistingFilesVar(&c.Files)

	cmd, err := app.Parse(args)
	if err != nil {
		return "", trace.Wrap(err, "failed to parse command line arguments")
	}
	return cmd, nil
}

func run(c *config, cmd string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	docs, err := readDocuments(c, stdin, logger)
	if err != nil {
		return trace.Wrap(err)
	}

	switch cmd {
	case encodeCommand:
		return trace.Wrap(encode(c, docs, stdout, logger))
	case compareCommand:
		return trace.Wrap(compare(c, docs, stdout))
	case promptCommand:
		return trace.Wrap(prompt(c, docs, stdout))
	}
	return trace.NotImplemented("unimplemented command %q", cmd)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	c, err := loadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cmd, err := parseCLI(c, os.Args[1:])
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.logLevel()}))

	if err := run(c, cmd, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("toon failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}
