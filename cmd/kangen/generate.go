package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kangen/kangen/pkg/anki"
	"github.com/kangen/kangen/pkg/config"
	"github.com/kangen/kangen/pkg/deck"
	"github.com/kangen/kangen/pkg/enhance"
	"github.com/kangen/kangen/pkg/enhance/gemini"
	"github.com/kangen/kangen/pkg/grouper"
	"github.com/kangen/kangen/pkg/imageprep"
	"github.com/kangen/kangen/pkg/ocr/tesseract"
	"github.com/kangen/kangen/pkg/pipeline"
	"github.com/kangen/kangen/pkg/readings"
)

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Build an Anki deck from study sheet photos",
	Long: `Generate runs the full pipeline over the given images or directories:
OCR, kanji grouping, dictionary readings, optional Gemini enhancement,
and finally an .apkg file ready for Anki import.

Without a Gemini API key (--api-key, GEMINI_API_KEY, or the config file)
cards are built from dictionary readings alone.

Examples:
  kangen generate sheets/ -o kanji.apkg
  kangen generate page1.jpg page2.jpg --strategy unique
  kangen generate sheets/ --min-confidence 0.7 --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "deck.apkg", "path of the .apkg deck to write")
	generateCmd.Flags().String("api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	generateCmd.Flags().String("strategy", "", "grouping strategy: proximity or unique")
	generateCmd.Flags().Float64("proximity", 0, "proximity grouping radius in pixels")
	generateCmd.Flags().Float64("min-confidence", 0, "minimum OCR confidence to keep a span")
	generateCmd.Flags().Int("batch-size", 0, "kanji per enhancement request")
	generateCmd.Flags().Bool("no-rectify", false, "skip page rectification")
	generateCmd.Flags().Bool("force", false, "overwrite the output file without asking")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Grouping.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if cmd.Flags().Changed("proximity") {
		cfg.Grouping.ProximityRadius, _ = cmd.Flags().GetFloat64("proximity")
	}
	if cmd.Flags().Changed("min-confidence") {
		cfg.OCR.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Enhance.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	}

	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")
	noRectify, _ := cmd.Flags().GetBool("no-rectify")

	if !force {
		if err := confirmOverwrite(output); err != nil {
			return err
		}
	}

	key, _ := cmd.Flags().GetString("api-key")
	if key == "" {
		key = cfg.ResolveAPIKey()
	}

	ctx := cmd.Context()

	files, err := pipeline.ExpandPaths(args)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d image(s)\n", len(files))

	runner, builder, err := buildRunner(ctx, cfg, key, !noRectify)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(ctx, files)
	printSummary(summary)
	if runErr != nil {
		return runErr
	}

	if err := builder.Save(output); err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) {
			color.Red("❌ No cards were generated; deck not saved.")
		}
		return err
	}
	color.Green("✅ Deck saved to %s (%d cards)", output, summary.Deck.Created)
	return nil
}

// buildRunner assembles the pipeline from config. The deck builder is
// returned separately because saving happens after the run.
func buildRunner(ctx context.Context, cfg config.Config, apiKey string, rectify bool) (*pipeline.Runner, *deck.Builder, error) {
	if cfg.OCR.TessdataDir != "" {
		if err := tesseract.EnsureTrainedData(ctx, cfg.OCR.TessdataDir, cfg.OCR.Languages); err != nil {
			return nil, nil, fmt.Errorf("prepare language data: %w", err)
		}
	}
	engine := tesseract.New(
		tesseract.WithLanguages(cfg.OCR.Languages...),
		tesseract.WithTessdataDir(cfg.OCR.TessdataDir),
	)

	strategy, err := grouper.ForName(cfg.Grouping.Strategy, cfg.Grouping.ProximityRadius)
	if err != nil {
		return nil, nil, err
	}

	resolver := newResolver()

	var service enhance.Service
	if apiKey != "" {
		service = gemini.New(apiKey, cfg.Enhance.Model)
	} else {
		color.Yellow("⚠️  No Gemini API key configured. Cards will use dictionary readings only.")
	}

	logger := log.New(os.Stderr, "", 0)

	orch := enhance.NewOrchestrator(service, resolver)
	orch.BatchSize = cfg.Enhance.BatchSize
	orch.Logger = logger

	builder := deck.NewBuilder(deckFromConfig(cfg), modelFromConfig(cfg))
	builder.Logger = logger

	runner := &pipeline.Runner{
		OCR:           engine,
		Strategy:      strategy,
		Enhancer:      orch,
		Deck:          builder,
		MinConfidence: cfg.OCR.MinConfidence,
		MaxDimension:  cfg.OCR.MaxDimension,
		Logger:        logger,
	}
	if rectify {
		runner.Rectifier = imageprep.NopRectifier{}
	}
	return runner, builder, nil
}

// newResolver degrades to dictionary-less mode instead of failing: cards
// can still be built from AI output alone.
func newResolver() *readings.Resolver {
	r, err := readings.NewResolver()
	if err != nil {
		color.Yellow("⚠️  Dictionary unavailable (%v); readings depend on the AI service.", err)
		return readings.NewResolverWith(nil)
	}
	return r
}

func deckFromConfig(cfg config.Config) anki.Deck {
	d := anki.DefaultDeck()
	if cfg.Deck.DeckID != 0 {
		d.ID = cfg.Deck.DeckID
	}
	if cfg.Deck.Name != "" {
		d.Name = cfg.Deck.Name
	}
	return d
}

func modelFromConfig(cfg config.Config) anki.Model {
	m := anki.KanjiModel()
	if cfg.Deck.ModelID != 0 {
		m.ID = cfg.Deck.ModelID
	}
	return m
}

func confirmOverwrite(path string) error {
	if _, err := os.Stat(path); err != nil {
		// Nothing to overwrite.
		return nil
	}
	fmt.Printf("%s already exists. Overwrite? [y/N]: ", path)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return errors.New("aborted")
}

func printSummary(s *pipeline.Summary) {
	fmt.Println()
	fmt.Println(color.CyanString("Summary"))
	fmt.Printf("  Images processed: %d", s.Images)
	if s.Failed > 0 {
		fmt.Printf(" (%s)", color.YellowString("%d skipped", s.Failed))
	}
	fmt.Println()
	fmt.Printf("  Text spans:       %d\n", s.Spans)
	fmt.Printf("  Kanji entries:    %d\n", s.Entries)
	fmt.Printf("  Cards created:    %d\n", s.Deck.Created)
	fmt.Printf("  Cards skipped:    %d\n", s.Deck.Skipped)
	fmt.Println()
}
