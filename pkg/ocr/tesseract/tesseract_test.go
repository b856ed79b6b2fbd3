package tesseract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/otiai10/gosseract/v2"
)

func TestNewDefaults(t *testing.T) {
	e := New()
	if e.Name() != "tesseract" {
		t.Errorf("Name() = %q, want tesseract", e.Name())
	}
	if len(e.languages) != 2 || e.languages[0] != "jpn" || e.languages[1] != "eng" {
		t.Errorf("default languages = %v, want [jpn eng]", e.languages)
	}
	if e.tessdataDir != "" {
		t.Errorf("default tessdataDir = %q, want empty", e.tessdataDir)
	}
}

func TestNewOptions(t *testing.T) {
	e := New(WithLanguages("jpn"), WithTessdataDir("/opt/tessdata"))
	if len(e.languages) != 1 || e.languages[0] != "jpn" {
		t.Errorf("languages = %v, want [jpn]", e.languages)
	}
	if e.tessdataDir != "/opt/tessdata" {
		t.Errorf("tessdataDir = %q, want /opt/tessdata", e.tessdataDir)
	}

	// An empty WithLanguages call keeps the default.
	e = New(WithLanguages())
	if len(e.languages) != 2 {
		t.Errorf("languages = %v, want defaults preserved", e.languages)
	}
}

func TestDetectCanceledContext(t *testing.T) {
	e := New()
	e.clientFactory = func() *gosseract.Client {
		t.Fatal("client constructed despite canceled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Detect(ctx, []byte("not-an-image")); err != context.Canceled {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}

func TestEnsureTrainedDataSkipsExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tessdata")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, lang := range []string{"jpn", "eng"} {
		path := filepath.Join(dir, lang+".traineddata")
		if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// A canceled context makes any download attempt fail, so success here
	// proves the existing files were honored.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := EnsureTrainedData(ctx, dir, []string{"jpn", "eng"}); err != nil {
		t.Errorf("EnsureTrainedData() = %v, want nil for existing files", err)
	}
}

func TestEnsureTrainedDataMissingTriggersDownload(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := EnsureTrainedData(ctx, dir, []string{"jpn"})
	if err == nil {
		t.Fatal("EnsureTrainedData() = nil, want download failure under canceled context")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "jpn.traineddata")); !os.IsNotExist(statErr) {
		t.Errorf("partial traineddata file left behind: stat error = %v", statErr)
	}
}

func TestEnsureTrainedDataCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "tessdata")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Download fails, but the directory must exist afterwards.
	_ = EnsureTrainedData(ctx, dir, []string{"jpn"})
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat %s: %v", dir, err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}
