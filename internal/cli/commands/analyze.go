package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sqllineage/analyzer/internal/config"
	"github.com/sqllineage/analyzer/pkg/analyzer"
	"github.com/sqllineage/analyzer/pkg/lineage"
	"github.com/sqllineage/analyzer/pkg/schema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	Dialect    string
	SchemaFile string
	Output     string
}

// NewAnalyzeCommand creates the analyze command. getConfig supplies the
// project defaults the flags overlay.
func NewAnalyzeCommand(getConfig func() *config.Config) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Analyze a SQL file and report its lineage",
		Long: `Parse a SQL script and report, per statement, the tables and columns
each output column derives from, along with joins, unresolved references,
and a complexity score. Pass - to read from stdin.`,
		Example: `  sqllineage analyze report.sql
  sqllineage analyze - --dialect postgres < report.sql
  sqllineage analyze report.sql --schema tables.json --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts, getConfig())
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect (ansi|postgres|snowflake|bigquery)")
	cmd.Flags().StringVar(&opts.SchemaFile, "schema", "", "path to a JSON file of schema.SchemaTable definitions")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (text|json)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts *AnalyzeOptions, cfg *config.Config) error {
	source, sourceName, err := readSource(path)
	if err != nil {
		return err
	}

	dialectName := opts.Dialect
	if dialectName == "" {
		dialectName = cfg.Dialect
	}
	outputFormat := opts.Output
	if outputFormat == "" {
		outputFormat = cfg.Output
	}

	schemaFile := opts.SchemaFile
	if schemaFile == "" {
		schemaFile = cfg.SchemaFile
	}

	var tables []schema.SchemaTable
	if schemaFile != "" {
		tables, err = loadSchemaFile(schemaFile)
		if err != nil {
			return fmt.Errorf("loading schema file: %w", err)
		}
	}

	req := analyzer.Request{
		SQL:        source,
		Dialect:    dialectName,
		SourceName: sourceName,
		Schema:     tables,
		Weights:    weightsPtr(cfg.Weights.Resolve()),
	}
	result := analyzer.Analyze(req)

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		return renderAnalyzeJSON(w, result)
	}
	return renderAnalyzeText(w, result)
}

func weightsPtr(w lineage.ComplexityWeights) *lineage.ComplexityWeights { return &w }

func readSource(path string) (source, sourceName string, err error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "<stdin>", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), path, nil
}

func loadSchemaFile(path string) ([]schema.SchemaTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tables []schema.SchemaTable
	if err := json.Unmarshal(b, &tables); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tables, nil
}

func renderAnalyzeJSON(w io.Writer, result *analyzer.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderAnalyzeText(w io.Writer, result *analyzer.Result) error {
	s := result.Summary
	_, _ = fmt.Fprintf(w, "%d statement(s), %d table(s), %d column(s), %d join(s), complexity %d\n",
		s.StatementCount, s.TableCount, s.ColumnCount, s.JoinCount, s.ComplexityScore)

	if len(result.Issues) > 0 {
		_, _ = fmt.Fprintln(w)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Code", "Statement", "Message"})
		for _, iss := range result.Issues {
			stmt := "-"
			if iss.StatementIndex != nil {
				stmt = fmt.Sprintf("%d", *iss.StatementIndex)
			}
			t.AppendRow(table.Row{iss.Severity, iss.Code, stmt, iss.Message})
		}
		t.Render()
	}

	for _, sl := range result.Statements {
		_, _ = fmt.Fprintf(w, "\nstatement %d (%s):\n", sl.StatementIndex, sl.StatementType)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Edge", "From", "To"})
		byID := make(map[int]lineage.Node, len(sl.Nodes))
		for _, n := range sl.Nodes {
			byID[n.ID] = n
		}
		for _, e := range sl.Edges {
			t.AppendRow(table.Row{e.Type, nodeLabel(byID[e.From]), nodeLabel(byID[e.To])})
		}
		t.Render()
	}

	if s.HasErrors {
		return fmt.Errorf("analysis reported %d error(s)", s.IssueCount.Errors)
	}
	return nil
}

func nodeLabel(n lineage.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Type)
}
