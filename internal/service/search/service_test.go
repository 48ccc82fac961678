package search

import (
	"context"
	stdErrors "errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/adapter"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/service/keyword"
	"github.com/kapu/imas-line-bot-go/internal/util"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

type fakeFetcher struct {
	mu      sync.Mutex
	records []domain.RawRecord
	err     error
	queries []string
}

func (f *fakeFetcher) FetchProfiles(_ context.Context, query string) ([]domain.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.records, f.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	modes    []string
	outcomes []string
}

func (r *fakeRecorder) ObserveSearch(mode, outcome string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
	r.outcomes = append(r.outcomes, outcome)
}

func newTestService(fetcher *fakeFetcher, recorder Recorder) *Service {
	clock := util.FixedClock(time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC))
	return NewService(
		keyword.NewResolver(clock),
		fetcher,
		adapter.NewCardAssembler(map[string]string{}, adapter.CardOptions{}),
		recorder,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestSearchFound(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{records: []domain.RawRecord{
		domain.NewRawRecord(map[domain.Field]string{
			domain.FieldName:   "天海春香",
			domain.FieldGender: "female",
			domain.FieldAge:    "17",
		}),
		domain.NewRawRecord(map[domain.Field]string{domain.FieldName: "如月千早"}),
	}}
	recorder := &fakeRecorder{}

	msg := newTestService(fetcher, recorder).Search(context.Background(), " 春香 ")

	if msg.AltText != "2人みつかりました！" {
		t.Fatalf("unexpected altText: %q", msg.AltText)
	}
	carousel, ok := msg.Contents.(*messaging_api.FlexCarousel)
	if !ok || len(carousel.Contents) != 2 {
		t.Fatalf("expected carousel of 2, got %T", msg.Contents)
	}
	if len(fetcher.queries) != 1 || !strings.Contains(fetcher.queries[0], `"春香"`) {
		t.Fatalf("expected single name query, got %v", fetcher.queries)
	}
	if recorder.modes[0] != "name" || recorder.outcomes[0] != OutcomeFound {
		t.Fatalf("unexpected metrics: %v %v", recorder.modes, recorder.outcomes)
	}
}

func TestSearchDateMode(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	recorder := &fakeRecorder{}
	_ = newTestService(fetcher, recorder).Search(context.Background(), "明日誕生日")

	if !strings.Contains(fetcher.queries[0], `"03-16"`) {
		t.Fatalf("expected date filter for 03-16 in query")
	}
	if recorder.modes[0] != "date" {
		t.Fatalf("unexpected mode: %s", recorder.modes[0])
	}
}

func TestSearchErrorCards(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		fetcher     *fakeFetcher
		wantAlt     string
		wantOutcome string
	}{
		"no result": {
			fetcher:     &fakeFetcher{records: []domain.RawRecord{}},
			wantAlt:     "みつかりませんでした…",
			wantOutcome: OutcomeNotFound,
		},
		"fetch error": {
			fetcher:     &fakeFetcher{err: errors.NewFetchError("request", 502, nil)},
			wantAlt:     "検索できませんでした",
			wantOutcome: OutcomeFailed,
		},
		"parse error": {
			fetcher:     &fakeFetcher{err: errors.NewParseError("missing results.bindings", nil)},
			wantAlt:     "検索できませんでした",
			wantOutcome: OutcomeFailed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			recorder := &fakeRecorder{}
			msg := newTestService(tt.fetcher, recorder).Search(context.Background(), "ほげほげ")

			if msg.AltText != tt.wantAlt {
				t.Fatalf("unexpected altText: %q", msg.AltText)
			}
			if _, ok := msg.Contents.(*messaging_api.FlexBubble); !ok {
				t.Fatalf("error card must be a single bubble, got %T", msg.Contents)
			}
			if recorder.outcomes[0] != tt.wantOutcome {
				t.Fatalf("unexpected outcome: %s", recorder.outcomes[0])
			}
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	key, records, err := newTestService(&fakeFetcher{}, nil).Lookup(context.Background(), "ほげほげ")

	var notFound *errors.NotFoundError
	if !stdErrors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Key != "ほげほげ" || key != domain.TextKey("ほげほげ") || records != nil {
		t.Fatalf("unexpected lookup result: key=%v records=%v", key, records)
	}
}

func TestLookupLocalizes(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{records: []domain.RawRecord{
		domain.NewRawRecord(map[domain.Field]string{
			domain.FieldName:      "天海春香",
			domain.FieldBirthDate: "--04-03",
		}),
	}}

	_, records, err := newTestService(fetcher, nil).Lookup(context.Background(), "4/3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := records[0].Value(domain.FieldBirthDate); got != "4月3日" {
		t.Fatalf("expected localized birth date, got %q", got)
	}
	if !strings.Contains(fetcher.queries[0], `"04-03"`) {
		t.Fatalf("expected date query for 04-03")
	}
}
