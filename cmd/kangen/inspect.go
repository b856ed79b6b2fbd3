package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kangen/kangen/pkg/config"
	"github.com/kangen/kangen/pkg/grouper"
	"github.com/kangen/kangen/pkg/imageprep"
	"github.com/kangen/kangen/pkg/ocr"
	"github.com/kangen/kangen/pkg/ocr/tesseract"
	"github.com/kangen/kangen/pkg/pipeline"
	"github.com/kangen/kangen/pkg/readings"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [paths...]",
	Short: "Show OCR spans and kanji groupings without building a deck",
	Long: `Inspect runs OCR, span classification, grouping and dictionary
validation over the given images and reports what the pipeline saw.
No AI calls are made and no deck is written. Use it to check sheet
quality and tune --min-confidence or --proximity before generating.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("json", false, "emit the report as JSON")
	inspectCmd.Flags().String("strategy", "", "grouping strategy: proximity or unique")
	inspectCmd.Flags().Float64("proximity", 0, "proximity grouping radius in pixels")
	inspectCmd.Flags().Float64("min-confidence", 0, "minimum OCR confidence to keep a span")
}

type spanReport struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HasKanji   bool    `json:"has_kanji"`
	IsKana     bool    `json:"is_kana"`
	IsLatin    bool    `json:"is_latin"`
}

type entryReport struct {
	Kanji      string   `json:"kanji"`
	Readings   []string `json:"readings,omitempty"`
	Meanings   []string `json:"meanings,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	Valid      bool     `json:"valid"`
	Confidence float64  `json:"validation_confidence"`
	Issues     []string `json:"issues,omitempty"`
}

type imageReport struct {
	Image   string        `json:"image"`
	Error   string        `json:"error,omitempty"`
	Spans   []spanReport  `json:"spans"`
	Entries []entryReport `json:"entries"`
}

func runInspect(cmd *cobra.Command, args []string) error {
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
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()

	files, err := pipeline.ExpandPaths(args)
	if err != nil {
		return err
	}

	if cfg.OCR.TessdataDir != "" {
		if err := tesseract.EnsureTrainedData(ctx, cfg.OCR.TessdataDir, cfg.OCR.Languages); err != nil {
			return fmt.Errorf("prepare language data: %w", err)
		}
	}
	engine := tesseract.New(
		tesseract.WithLanguages(cfg.OCR.Languages...),
		tesseract.WithTessdataDir(cfg.OCR.TessdataDir),
	)

	strategy, err := grouper.ForName(cfg.Grouping.Strategy, cfg.Grouping.ProximityRadius)
	if err != nil {
		return err
	}
	validator := readings.NewValidator(newResolver())

	var reports []imageReport
	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reports = append(reports, inspectImage(ctx, engine, strategy, validator, cfg, file))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, rep := range reports {
		printReport(rep, cfg.Deck.ValidationThreshold)
	}
	return nil
}

func inspectImage(ctx context.Context, engine ocr.Engine, strategy grouper.Strategy, validator *readings.Validator, cfg config.Config, path string) imageReport {
	rep := imageReport{Image: path, Spans: []spanReport{}, Entries: []entryReport{}}

	img, _, err := imageprep.Load(path)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	data, err := imageprep.EncodePNG(imageprep.Downscale(img, cfg.OCR.MaxDimension))
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	detections, err := engine.Detect(ctx, data)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}

	spans := ocr.Spans(detections, cfg.OCR.MinConfidence)
	for _, s := range spans {
		rep.Spans = append(rep.Spans, spanReport{
			Text:       s.Text,
			Confidence: s.Confidence,
			X:          s.Center.X,
			Y:          s.Center.Y,
			HasKanji:   s.HasKanji,
			IsKana:     s.IsKana,
			IsLatin:    s.IsLatin,
		})
	}
	for _, e := range strategy.Group(spans) {
		res := validator.ValidateEntry(e.Kanji, e.Readings)
		rep.Entries = append(rep.Entries, entryReport{
			Kanji:      e.Kanji,
			Readings:   e.Readings,
			Meanings:   e.Meanings,
			Examples:   e.Examples,
			Valid:      res.Valid,
			Confidence: res.Confidence,
			Issues:     res.Issues,
		})
	}
	return rep
}

func printReport(rep imageReport, threshold float64) {
	fmt.Println()
	fmt.Println(color.CyanString("== %s", rep.Image))
	if rep.Error != "" {
		color.Red("  failed: %s", rep.Error)
		return
	}

	fmt.Printf("  spans: %d\n", len(rep.Spans))
	for _, s := range rep.Spans {
		fmt.Printf("    %.2f  %-5s %q @ (%.0f, %.0f)\n", s.Confidence, scriptTag(s), s.Text, s.X, s.Y)
	}

	fmt.Printf("  entries: %d\n", len(rep.Entries))
	for _, e := range rep.Entries {
		marker := color.GreenString("✅")
		if !e.Valid || e.Confidence < threshold {
			marker = color.YellowString("⚠️")
		}
		fmt.Printf("    %s %s  readings=%v meanings=%v examples=%d  confidence=%.2f\n",
			marker, e.Kanji, e.Readings, e.Meanings, len(e.Examples), e.Confidence)
		for _, issue := range e.Issues {
			fmt.Printf("       %s\n", issue)
		}
	}
}

// scriptTag picks a one-word label for display. Flags are not exclusive,
// so the order here is a display choice, not a classification rule.
func scriptTag(s spanReport) string {
	switch {
	case s.HasKanji:
		return "kanji"
	case s.IsKana:
		return "kana"
	case s.IsLatin:
		return "latin"
	}
	return "mixed"
}
