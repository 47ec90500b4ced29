package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pagemark/pagemark/bloom"
	"github.com/pagemark/pagemark/gemini"
	"github.com/pagemark/pagemark/goquery"
	"github.com/pagemark/pagemark/htmltomarkdown"
	pagemarkhttp "github.com/pagemark/pagemark/http"
	"github.com/pagemark/pagemark/mem"
	"github.com/pagemark/pagemark/normalize"
	"github.com/pagemark/pagemark/pipeline"
	pagemarkslog "github.com/pagemark/pagemark/slog"
	"github.com/pagemark/pagemark/trafilatura"
	"google.golang.org/genai"
)

// tokenizerModel is used for local token counting; the tokenizer package
// lags behind the newest generation models.
const tokenizerModel = "gemini-2.5-flash"

// formatTokenBudget caps content sent to the formatter. Pages larger than
// this return ETOOLARGE instead of burning quota on a doomed request.
const formatTokenBudget = 500_000

// revisitCapacity sizes the bloom filter tracking URLs fetched this process.
const revisitCapacity = 100_000

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Pipeline assembled by Run, exposed for end-to-end testing.
	Pipeline *pipeline.Pipeline
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// A missing .env file is fine; real env vars take precedence anyway.
	_ = godotenv.Load()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagemark"),
		kong.Description("Fetch web pages and convert them to Markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagemark --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	fetcher := pagemarkhttp.NewFetcher(
		pagemarkhttp.WithTimeout(cli.Timeout),
		pagemarkhttp.WithMaxBytes(cli.MaxBytes),
	)
	defer fetcher.Close()

	pipe := &pipeline.Pipeline{
		Fetcher:     pagemarkslog.NewLoggingFetcher(fetcher, logger),
		RateLimiter: pipeline.NewDomainLimiter(cli.RPS, 1),
		Normalizer:  pagemarkslog.NewLoggingNormalizer(normalize.New(), logger),
		Meta:        goquery.NewMetaExtractor(),
		Extractor:   trafilatura.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		Seen:        bloom.NewFilter(revisitCapacity, 0.01),
		Logger:      logger,
	}

	if endpoint := os.Getenv("PAGEMARK_EXTERNAL_URL"); endpoint != "" {
		pipe.External = pagemarkhttp.NewExternalClient(endpoint)
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		opts := []gemini.FormatterOption{}
		if counter, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			opts = append(opts, gemini.WithTokenBudget(counter, formatTokenBudget))
		} else {
			logger.Warn("local tokenizer unavailable, skipping token budget", "err", err)
		}

		pipe.Formatter = gemini.NewFormatter(client, opts...)
		deps.Chat = gemini.NewChatAgent(client)
	}

	m.Pipeline = pipe
	deps.Pipe = pipe
	deps.Items = mem.NewItemService()

	return kongCtx.Run(deps)
}
