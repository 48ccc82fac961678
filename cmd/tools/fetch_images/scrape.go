package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/service/sparql"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

// idolPage: 이미지를 가져올 아이돌 이름과 명감 페이지
type idolPage struct {
	Name string
	URL  string
}

// collectPages: 이름 기준으로 중복을 제거하고 이름 순으로 정렬한다. 이름 또는 URL이 비면 건너뛴다.
func collectPages(bindings []sparql.Binding) []idolPage {
	seen := make(map[string]struct{}, len(bindings))
	pages := make([]idolPage, 0, len(bindings))
	for _, b := range bindings {
		name := util.TrimSpace(b["name"])
		link := util.TrimSpace(b["url"])
		if name == "" || link == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		pages = append(pages, idolPage{Name: name, URL: link})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })
	return pages
}

type scraper struct {
	httpClient  *http.Client
	concurrency int
	delay       time.Duration
	logger      *slog.Logger
}

// scrapeAll: 페이지별 og:image를 병렬로 수집한다. 실패한 페이지는 결과에서 빠진다.
func (s *scraper) scrapeAll(ctx context.Context, pages []idolPage) map[string]string {
	workers := s.concurrency
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	results := make(map[string]string, len(pages))

	p := pool.New().WithMaxGoroutines(workers)
	for i, page := range pages {
		if ctx.Err() != nil {
			s.logger.Warn("Scrape cancelled, skipping remaining pages",
				slog.Int("queued", i),
				slog.Int("total", len(pages)),
			)
			break
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			image, err := fetchOGImage(ctx, s.httpClient, page.URL)
			if err != nil {
				s.logger.Warn("Failed to scrape og:image",
					slog.String("name", page.Name),
					slog.String("url", page.URL),
					slog.Any("error", err),
				)
			} else {
				mu.Lock()
				results[page.Name] = image
				mu.Unlock()
				s.logger.Debug("Scraped", slog.Int("index", i+1), slog.String("name", page.Name))
			}
			if s.delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(s.delay):
				}
			}
		})
	}
	p.Wait()

	return results
}

// fetchOGImage: 페이지의 og:image 절대 URL을 반환한다.
func fetchOGImage(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", constants.SparqlConfig.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	content = util.TrimSpace(content)
	if !ok || content == "" {
		return "", fmt.Errorf("og:image not found")
	}

	ref, err := url.Parse(content)
	if err != nil {
		return "", fmt.Errorf("invalid og:image %q: %w", content, err)
	}
	return resp.Request.URL.ResolveReference(ref).String(), nil
}

// readTable: 기존 테이블을 읽는다. 파일이 없으면 빈 테이블.
func readTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, err := domain.ParseImageTable(data)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// mergeTable: 새로 수집한 값이 기존 값을 덮어쓴다.
func mergeTable(previous, scraped map[string]string) map[string]string {
	merged := make(map[string]string, len(previous)+len(scraped))
	for name, v := range previous {
		merged[name] = v
	}
	for name, v := range scraped {
		merged[name] = v
	}
	return merged
}

// writeTable: 임시 파일에 쓴 뒤 rename으로 교체한다.
func writeTable(path string, table map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal image table: %w", err)
	}
	data = append(data, '\n')

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}
