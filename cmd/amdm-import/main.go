package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sukalov/chordedit/internal/editor"
	"github.com/sukalov/chordedit/internal/logger"
	"github.com/sukalov/chordedit/internal/lyrics"
	"github.com/sukalov/chordedit/internal/lyrics/parsers/amdm"
)

type options struct {
	outDir      string
	concurrency int
	drop        string
	check       bool
}

func main() {
	var opts options

	flag.StringVar(&opts.outDir, "out", ".", "Directory for the .cho files")
	flag.IntVar(&opts.concurrency, "concurrency", 4, "How many pages to fetch at once")
	flag.StringVar(&opts.drop, "drop", "", "Comma separated sections to leave out, e.g. Вступление,Проигрыш")
	flag.BoolVar(&opts.check, "check", false, "Print the parsed document after converting")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <URL or .html/.txt file>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "Example: %s -out songs https://123.amdm.ru/akkordi/mihail_krug/102195/vladimirskiy_tsentral/\n", os.Args[0])
		os.Exit(1)
	}
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		log.Fatalf("Error creating output dir: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	service := lyrics.NewService(processingConfig(opts.drop))

	var (
		mu     sync.Mutex
		failed []string
	)
	swg := sizedwaitgroup.New(opts.concurrency)
	for _, source := range args {
		swg.Add()
		go func(source string) {
			defer swg.Done()
			if err := importOne(ctx, service, source, opts); err != nil {
				logger.Error(fmt.Sprintf("Import failed\nSource: %s\nError: %v", source, err))
				mu.Lock()
				failed = append(failed, source)
				mu.Unlock()
			}
		}(source)
	}
	swg.Wait()

	fmt.Printf("=== %d of %d imported ===\n", len(args)-len(failed), len(args))
	if len(failed) > 0 {
		os.Exit(1)
	}
}

func processingConfig(drop string) *amdm.ProcessingConfig {
	config := amdm.DefaultConfig()
	for _, name := range strings.Split(drop, ",") {
		if name = strings.TrimSpace(name); name != "" {
			config.DropSections = append(config.DropSections, amdm.SectionType(name))
		}
	}
	return config
}

func importOne(ctx context.Context, service *lyrics.Service, source string, opts options) error {
	var (
		song *lyrics.Song
		err  error
	)
	if lyrics.Supported(source) {
		song, err = service.Import(ctx, source)
	} else {
		var content []byte
		content, err = os.ReadFile(source)
		if err != nil {
			return err
		}
		song, err = service.Convert(source, string(content))
	}
	if err != nil {
		return err
	}

	outFile := filepath.Join(opts.outDir, outputName(source))
	if err := os.WriteFile(outFile, []byte(song.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("error saving %s: %w", outFile, err)
	}
	logger.Success(fmt.Sprintf("Converted %s\nOutput: %s\nSize: %s\nChords: %d",
		source, outFile, humanize.Bytes(uint64(len(song.Text))), song.Chords))

	if opts.check {
		doc := editor.Parse(song.Text)
		fmt.Printf("--- %s: %d lines, %d chords\n", outFile, len(doc), len(doc.Chords()))
		if editor.Serialize(doc) != song.Text {
			fmt.Printf("--- %s: text changes when parsed and written back\n", outFile)
		}
	}
	return nil
}

// outputName names the .cho file after the last path segment of the source
func outputName(source string) string {
	base := strings.TrimSuffix(source, "/")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "song"
	}
	return base + ".cho"
}
