// fetch_images: im@sparql의 아이돌 명감 URL을 따라가 og:image를 모아 이미지 테이블(JSON)을 다시 만든다.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/service/sparql"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

type options struct {
	endpoint    string
	output      string
	concurrency int
	delay       time.Duration
	timeout     time.Duration
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "fetch_images",
		Short: "Rebuild the idol image table from IdolListURL og:image tags",
		Long: `Lists every idol that has an IdolListURL on im@sparql, scrapes the og:image
of each page and writes the name -> image URL table. Entries that fail to scrape keep
their previous value.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.endpoint, "endpoint", constants.SparqlConfig.Endpoint, "SPARQL endpoint URL")
	flags.StringVarP(&opts.output, "output", "o", "internal/domain/data/image_filename.json", "output JSON path")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", constants.ImageScrapeConfig.Concurrency, "parallel page fetches")
	flags.DurationVar(&opts.delay, "delay", constants.ImageScrapeConfig.Delay, "pause after each page fetch")
	flags.DurationVar(&opts.timeout, "timeout", constants.ImageScrapeConfig.Timeout, "per-page HTTP timeout")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level")

	return cmd
}

func run(ctx context.Context, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := util.NewLoggerWithLevel(opts.logLevel)

	clientCfg := sparql.DefaultClientConfig()
	clientCfg.Endpoint = opts.endpoint
	client := sparql.NewClient(clientCfg, nil, logger)

	bindings, err := client.Select(ctx, sparql.IdolListQuery())
	if err != nil {
		return fmt.Errorf("list idols: %w", err)
	}
	pages := collectPages(bindings)
	logger.Info("Idol pages listed", slog.Int("count", len(pages)))

	previous, err := readTable(opts.output)
	if err != nil {
		return err
	}

	scraper := &scraper{
		httpClient:  &http.Client{Timeout: opts.timeout},
		concurrency: opts.concurrency,
		delay:       opts.delay,
		logger:      logger,
	}
	scraped := scraper.scrapeAll(ctx, pages)

	table := mergeTable(previous, scraped)
	if err := writeTable(opts.output, table); err != nil {
		return err
	}

	logger.Info("Image table written",
		slog.String("output", opts.output),
		slog.Int("entries", len(table)),
		slog.Int("scraped", len(scraped)),
		slog.Int("failed", len(pages)-len(scraped)),
	)
	return nil
}
