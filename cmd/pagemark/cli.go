package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pagemark/pagemark"
	pagemarkhttp "github.com/pagemark/pagemark/http"
	"github.com/pagemark/pagemark/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Pipe    *pipeline.Pipeline
	Chat    pagemark.ChatAgent
	Items   pagemark.ItemService
	Metrics *pagemarkhttp.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server"`
	Convert ConvertCmd `cmd:"" help:"Convert one URL to Markdown and print it"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about a web page"`

	Timeout  time.Duration `default:"15s" help:"Per-fetch timeout"`
	MaxBytes int64         `default:"5242880" help:"Maximum fetched page size in bytes"`
	RPS      float64       `default:"1.0" help:"Fetch rate limit per domain, requests per second"`
	Verbose  bool          `short:"v" help:"Enable debug logging"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URL  string `arg:"" help:"Page URL"`
	Mode string `short:"m" default:"extract_body_strip_tags" help:"Processing mode: extract_body_strip_tags, full_page_strip_tags, full_page_ai_handles_html, or external_api"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL      string `arg:"" help:"Page URL to ask about"`
	Question string `arg:"" help:"Question to ask"`
}
