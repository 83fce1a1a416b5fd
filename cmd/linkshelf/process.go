package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/linkshelf/internal/classify"
	"github.com/jonathan/linkshelf/internal/config"
	"github.com/jonathan/linkshelf/internal/fetch"
	"github.com/jonathan/linkshelf/internal/llm"
	"github.com/jonathan/linkshelf/internal/observability"
	"github.com/jonathan/linkshelf/internal/pipeline"
	"github.com/jonathan/linkshelf/internal/store"
	"github.com/jonathan/linkshelf/internal/urlutil"
)

var processCommand = &cobra.Command{
	Use:   "process",
	Short: "Extract, classify and store links from a text file",
	Long: `Reads the links file, extracts every http(s) URL, classifies each page with
the configured model and appends new records to the JSON link store.

Settings come from the environment (LINKSHELF_*, GEMINI_API_KEY), an optional
JSON config file, and flags, in increasing priority. Per-URL failures are
reported but do not fail the run; only startup faults exit non-zero.`,
	RunE: runProcessCmd,
}

var (
	processConfigPath  string
	processLinksPath   string
	processDataPath    string
	processTimeout     int
	processConcurrency int
	processModel       string
	processAPIKey      string
	processUseBrowser  bool
	processVerbose     bool
)

func init() {
	processCommand.Flags().StringVar(&processConfigPath, "config", "", "Path to a JSON config file (values can be overridden by other flags)")
	processCommand.Flags().StringVarP(&processLinksPath, "links", "l", "", "Path to the text file to scan for URLs")
	processCommand.Flags().StringVarP(&processDataPath, "data", "d", "", "Path to the JSON link store")
	processCommand.Flags().IntVar(&processTimeout, "timeout", 0, "Per-page fetch timeout in seconds")
	processCommand.Flags().IntVar(&processConcurrency, "concurrency", 0, "Maximum concurrent fetch+classify operations")
	processCommand.Flags().StringVar(&processModel, "model", "", "Gemini model name")
	processCommand.Flags().StringVar(&processAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	processCommand.Flags().BoolVar(&processUseBrowser, "use-browser", false, "Render JavaScript-heavy pages in a headless browser (requires Chrome)")
	processCommand.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print per-link progress")

	rootCmd.AddCommand(processCommand)
}

func runProcessCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	text, err := os.ReadFile(settings.LinksPath)
	if err != nil {
		return fmt.Errorf("links file not found: %s", settings.LinksPath)
	}

	urls := urlutil.ExtractURLs(string(text))
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", settings.LinksPath)
	}

	linkStore, err := store.New(settings.DataPath)
	if err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, settings.APIKey, settings.Model)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	classifier := classify.New(client, classify.Options{
		FetchOptions: &fetch.Options{
			Timeout:   settings.Timeout(),
			UserAgent: fetch.DefaultUserAgent,
		},
		UseBrowser: settings.UseBrowser,
	})

	printer := observability.NewPrinter(os.Stdout)

	opts := pipeline.Options{MaxConcurrency: settings.MaxConcurrency}
	if settings.Verbose {
		printer.PrintRunStart(len(urls), client.Model())
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			printer.PrintProgress(e.RunID, e.Status, e.URL, e.Message)
		}
	}

	result := pipeline.Process(ctx, urls, classifier, linkStore, opts)
	printer.PrintSummary(result)

	// Per-URL failures are part of a completed run and do not change the exit code.
	return nil
}

// loadSettings builds the effective settings: env defaults, then the config
// file, then explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings := config.FromEnv()

	if processConfigPath != "" {
		loaded, err := config.LoadFile(processConfigPath, settings)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	if cmd.Flags().Changed("links") {
		settings.LinksPath = processLinksPath
	}
	if cmd.Flags().Changed("data") {
		settings.DataPath = processDataPath
	}
	if cmd.Flags().Changed("timeout") {
		settings.TimeoutSeconds = processTimeout
	}
	if cmd.Flags().Changed("concurrency") {
		settings.MaxConcurrency = processConcurrency
	}
	if cmd.Flags().Changed("model") {
		settings.Model = processModel
	}
	if cmd.Flags().Changed("api-key") {
		settings.APIKey = processAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		settings.UseBrowser = processUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		settings.Verbose = processVerbose
	}

	return settings, nil
}
