package tesseract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const trainedDataBaseURL = "https://raw.githubusercontent.com/tesseract-ocr/tessdata_fast/main"

// EnsureTrainedData checks that a traineddata file exists in dir for each
// language. Missing ones are downloaded from the tessdata_fast repository.
func EnsureTrainedData(ctx context.Context, dir string, langs []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, lang := range langs {
		path := filepath.Join(dir, lang+".traineddata")
		if _, err := os.Stat(path); err == nil {
			// File exists
			continue
		} else if !os.IsNotExist(err) {
			return err
		}

		fmt.Printf("Language data for %q not found at %s. Attempting auto-download...\n", lang, path)
		if err := downloadTrainedData(ctx, lang, path); err != nil {
			return fmt.Errorf("failed to download %s language data: %w", lang, err)
		}
	}
	return nil
}

func downloadTrainedData(ctx context.Context, lang, destPath string) error {
	url := fmt.Sprintf("%s/%s.traineddata", trainedDataBaseURL, lang)
	fmt.Printf("Downloading from %s...\n", url)

	client := &http.Client{Timeout: 5 * time.Minute}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "kangen-cli")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	outFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		// Remove the partial file so the next run retries the download.
		os.Remove(destPath)
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
