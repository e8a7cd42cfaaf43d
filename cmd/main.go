// Command peerweave merges a Canvas gradebook with peer/self evaluation
// survey responses into one enriched roster file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tmarren/peerweave/internal/adapters/export"
	"github.com/tmarren/peerweave/internal/adapters/ingest"
	"github.com/tmarren/peerweave/internal/adapters/prompt"
	app "github.com/tmarren/peerweave/internal/app"
	"github.com/tmarren/peerweave/internal/config"
	"github.com/tmarren/peerweave/internal/domain/lexicon"
	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/pkg/logger"
	"github.com/tmarren/peerweave/pkg/metrics"
)

var (
	rosterPath     string
	surveyPath     string
	responsesPath  string
	schemaPath     string
	lexiconPath    string
	outPath        string
	nonInteractive bool
	metricsDump    string
)

var rootCmd = &cobra.Command{
	Use:   "peerweave",
	Short: "merge peer/self evaluation surveys into a gradebook",
	Long: `Merge a Canvas gradebook CSV with a group-evaluation survey into one
enriched roster: converted self-evaluation scores, aggregated peer feedback
(averages, spreads, combined comments), and self/peer discrepancies.

The survey arrives either as a workbook carrying its own ResponseMap and
PointMap sheets (--survey) or as a response CSV with standalone YAML schema
and lexicon files (--responses, --schema, --lexicon).`,
	Example: `  # Workbook export with embedded maps
  $ peerweave --roster gradebook.csv --survey responses.xlsx -o merged.xlsx

  # CSV export with standalone maps, no prompts
  $ peerweave --roster gradebook.csv --responses responses.csv \
      --schema schema.yaml --lexicon points.yaml -o merged.csv --non-interactive`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&rosterPath, "roster", "", "Canvas gradebook CSV (required)")
	rootCmd.Flags().StringVar(&surveyPath, "survey", "", "survey workbook with response/map/point sheets")
	rootCmd.Flags().StringVar(&responsesPath, "responses", "", "survey response CSV (needs --schema and --lexicon)")
	rootCmd.Flags().StringVar(&schemaPath, "schema", "", "schema map YAML for --responses")
	rootCmd.Flags().StringVar(&lexiconPath, "lexicon", "", "rating lexicon YAML for --responses")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, .xlsx or .csv (required)")
	rootCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "skip unresolved responses instead of prompting")
	rootCmd.Flags().StringVar(&metricsDump, "metrics-dump", "", "write Prometheus text metrics to this file")
	cobra.CheckErr(rootCmd.MarkFlagRequired("roster"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("out"))
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	log := logger.Get()

	ros, err := ingest.ReadRosterCSV(rosterPath,
		ingest.WithSkipLeading(cfg.RosterSkipLeading),
		ingest.WithSkipTrailing(cfg.RosterSkipTrailing),
	)
	if err != nil {
		return err
	}

	in := app.RunInput{Roster: ros}
	switch {
	case surveyPath != "":
		sv, err := ingest.ReadWorkbook(surveyPath,
			ingest.WithSheets(cfg.SheetResponses, cfg.SheetSchemaMap, cfg.SheetLexicon),
			ingest.WithMapHeaderRow(cfg.MapHeaderRow),
			ingest.WithMissingSet(cfg.MissingSet()),
		)
		if err != nil {
			return err
		}
		in.Responses, in.Schema, in.Lexicon = sv.Responses, sv.Schema, sv.Lexicon
	case responsesPath != "" && schemaPath != "" && lexiconPath != "":
		frame, err := ingest.ReadResponsesCSV(responsesPath)
		if err != nil {
			return err
		}
		sm, err := ingest.ReadSchemaYAML(schemaPath)
		if err != nil {
			return err
		}
		if err := sm.BindColumns(frame.Headers()); err != nil {
			return err
		}
		points, err := ingest.ReadLexiconYAML(lexiconPath)
		if err != nil {
			return err
		}
		in.Responses = frame
		in.Schema = sm
		in.Lexicon = lexicon.New(points, lexicon.WithMissingSet(cfg.MissingSet()))
	default:
		return errors.New("either --survey or all of --responses/--schema/--lexicon are required")
	}

	var prompter resolve.Prompter
	if cfg.Interactive && !nonInteractive {
		prompter = prompt.NewTerminal()
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithMetrics(metrics.Get()),
		app.WithPrompter(prompter),
		app.WithCommentSeparator(cfg.CommentSeparator),
		app.WithRatingPrecision(cfg.RatingPrecision),
		app.WithMissingSet(cfg.MissingSet()),
	)
	rep, err := svc.Run(ctx, in)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outPath), ".csv") {
		err = export.WriteCSV(outPath, ros)
	} else {
		err = export.WriteXLSX(outPath, ros)
	}
	if err != nil {
		return err
	}

	if dump := firstNonEmpty(metricsDump, cfg.MetricsDump); dump != "" {
		if err := dumpMetrics(dump); err != nil {
			log.Warn(ctx, "metrics dump failed", logger.Error(err))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Merged %d self and %d peer responses for %d students into %s (skipped %d, prompts %d)\n",
		rep.SelfMerged, rep.PeerMerged, ros.Len(), outPath,
		rep.SelfSkipped+rep.PeerSkipped, rep.Prompts)
	return nil
}

func dumpMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return metrics.Get().WriteTo(f)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
