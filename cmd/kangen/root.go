package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kangen",
	Short: "Turn kanji study sheet photos into Anki decks",
	Long: `KanGen reads photos of kanji study sheets, runs OCR over them with
Tesseract, groups readings and meanings around the kanji they belong to,
fills gaps from a bundled dictionary, optionally polishes the cards with
Gemini, and writes an Anki-importable .apkg deck.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kangen/config.toml)")
}
