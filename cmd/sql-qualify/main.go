package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"sql-qualify/internal/assembler"
	"sql-qualify/internal/config"
	"sql-qualify/internal/model"
	"sql-qualify/internal/qualifier"
	"sql-qualify/internal/reporter"
	"sql-qualify/internal/scanner"
	"sql-qualify/internal/xref"
)

var (
	dbName      string
	schemaName  string
	configPath  string
	outputFile  string
	summaryFile string
	nonProd     []string
	preview     bool
	noInput     bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "sql-qualify <input>",
	Short: "Normalize SQL deployment scripts for a target database and schema",
	Long: `sql-qualify rewrites unqualified or partially-qualified object references
in SQL deployment scripts into fully database- and schema-qualified form,
inserts SET SCHEMA directives, repairs missing statement terminators and
flags FROM/JOIN references to non-production or foreign databases.

The input is either a single SQL script or a newline-delimited list of
script paths (detected from its first non-blank line).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQualify(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&dbName, "db", "d", "", "Target database name (env DBNAME)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Target schema name (env SCHEMANAME)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&outputFile, "out", "o", "deploy_qualified.sql", "Combined output artifact path")
	rootCmd.Flags().StringVar(&summaryFile, "summary", "", "Write the event summary to this file instead of stdout")
	rootCmd.Flags().StringSliceVar(&nonProd, "non-prod", nil, "Non-production database names (default STGDV,STGQA,CIDDV,CIDQA,DEV,TEST,UAT)")
	rootCmd.Flags().BoolVarP(&preview, "preview", "p", false, "Show before/after changes without writing files")
	rootCmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt for missing configuration values")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runQualify(input string) error {
	log := newLogger(verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbName != "" {
		cfg.Database = dbName
	}
	if schemaName != "" {
		cfg.Schema = schemaName
	}
	if len(nonProd) > 0 {
		cfg.NonProd = nonProd
	}
	if preview {
		cfg.Preview = true
	}

	if !noInput {
		if err := promptMissing(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.WithField("target", cfg.Database+"."+cfg.Schema).Debug("configuration loaded")

	// An unreadable top-level input is the only fatal condition.
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	rec := reporter.NewRecorder()
	asm := assembler.New(
		qualifier.New(cfg.Database, cfg.Schema),
		xref.NewScanner(cfg.Database, cfg.NonProd),
		rec,
		log,
	)

	var results []*assembler.FileResult
	if scanner.Detect(string(content)) == scanner.InputFileList {
		for _, path := range scanner.ListPaths(string(content)) {
			f, err := os.Open(path)
			if err != nil {
				rec.Event(model.Event{
					Level:   model.EventError,
					File:    path,
					Message: fmt.Sprintf("cannot open file: %v", err),
				})
				log.WithError(err).WithField("file", path).Warn("skipping file")
				continue
			}
			res, err := asm.ProcessFile(path, f)
			f.Close()
			if err != nil {
				rec.Event(model.Event{
					Level:   model.EventError,
					File:    path,
					Message: fmt.Sprintf("processing failed: %v", err),
				})
				continue
			}
			results = append(results, res)
		}
	} else {
		res, err := asm.ProcessFile(input, strings.NewReader(string(content)))
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if cfg.Preview {
		return reporter.NewConsoleReporter().Report(rec.Events(), rec.Edits())
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := reporter.WriteArtifact(out, cfg.Database+"."+cfg.Schema, results); err != nil {
		return err
	}
	log.WithField("out", outputFile).Info("artifact written")

	if summaryFile != "" {
		sf, err := os.Create(summaryFile)
		if err != nil {
			return fmt.Errorf("create summary: %w", err)
		}
		defer sf.Close()
		return reporter.WriteSummary(sf, rec.Events())
	}
	return reporter.NewConsoleReporter().Report(rec.Events(), nil)
}

// promptMissing asks for the target names that are still unset after flags,
// config file and environment have been applied.
func promptMissing(cfg *config.Config) error {
	if cfg.Database == "" {
		prompt := &survey.Input{Message: "Target database name:"}
		if err := survey.AskOne(prompt, &cfg.Database, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if cfg.Schema == "" {
		prompt := &survey.Input{Message: "Target schema name:"}
		if err := survey.AskOne(prompt, &cfg.Schema, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	return nil
}
