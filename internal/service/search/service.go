// Package search: 채팅 텍스트 -> 검색 키 -> SPARQL 조회 -> 로컬라이즈 -> Flex 메시지 파이프라인.
package search

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/adapter"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/service/keyword"
	"github.com/kapu/imas-line-bot-go/internal/service/profile"
	"github.com/kapu/imas-line-bot-go/internal/service/sparql"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// 검색 결과 라벨
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Recorder: 검색 단위 메트릭 수집 훅
type Recorder interface {
	ObserveSearch(mode, outcome string, results int, elapsed time.Duration)
}

// Service: 검색 파이프라인. 요청 하나는 순차적으로 처리되며 요청 간 공유 상태가 없다.
type Service struct {
	resolver  *keyword.Resolver
	fetcher   sparql.Fetcher
	assembler *adapter.CardAssembler
	recorder  Recorder
	logger    *slog.Logger
}

// NewService: 검색 서비스를 생성한다. recorder는 nil이어도 된다.
func NewService(resolver *keyword.Resolver, fetcher sparql.Fetcher, assembler *adapter.CardAssembler, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = keyword.NewResolver(nil)
	}
	return &Service{
		resolver:  resolver,
		fetcher:   fetcher,
		assembler: assembler,
		recorder:  recorder,
		logger:    logger,
	}
}

// Lookup: 텍스트를 해석해 조회하고 로컬라이즈된 레코드를 반환한다.
// 결과가 0건이면 *errors.NotFoundError, 조회/파싱 실패는 그대로 전달한다.
func (s *Service) Lookup(ctx context.Context, text string) (domain.SearchKey, []domain.LocalizedRecord, error) {
	key := s.resolver.Resolve(text)

	raws, err := s.fetcher.FetchProfiles(ctx, sparql.BuildQuery(key))
	if err != nil {
		return key, nil, err
	}
	if len(raws) == 0 {
		return key, nil, errors.NewNotFoundError(key.String())
	}

	return key, profile.LocalizeAll(raws), nil
}

// Search: 텍스트에 대한 회신 메시지를 만든다. 항상 전송 가능한 메시지를 반환한다.
//   - 결과 있음: 캐러셀
//   - 결과 없음: 검색 결과 없음 카드
//   - 조회/파싱 실패: 접근 실패 카드
func (s *Service) Search(ctx context.Context, text string) *messaging_api.FlexMessage {
	start := time.Now()

	key, records, err := s.Lookup(ctx, text)
	mode := domain.SearchMode(key)

	if err != nil {
		var notFound *errors.NotFoundError
		if stdErrors.As(err, &notFound) {
			s.logger.Info("Profile search returned no result",
				slog.String("mode", mode),
				slog.String("key", key.String()),
			)
			s.observe(mode, OutcomeNotFound, 0, start)
			return adapter.NotFoundCard()
		}

		s.logger.Error("Profile search failed",
			slog.String("mode", mode),
			slog.String("key", key.String()),
			slog.String("kind", classify(err)),
			slog.Any("error", err),
		)
		s.observe(mode, OutcomeFailed, 0, start)
		return adapter.FetchFailedCard()
	}

	s.logger.Info("Profile search completed",
		slog.String("mode", mode),
		slog.String("key", key.String()),
		slog.Int("results", len(records)),
		slog.Duration("elapsed", time.Since(start)),
	)
	s.observe(mode, OutcomeFound, len(records), start)
	return s.assembler.Assemble(records)
}

func (s *Service) observe(mode, outcome string, results int, start time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveSearch(mode, outcome, results, time.Since(start))
}

func classify(err error) string {
	var (
		fetchErr *errors.FetchError
		parseErr *errors.ParseError
	)
	switch {
	case stdErrors.As(err, &fetchErr):
		return "fetch"
	case stdErrors.As(err, &parseErr):
		return "parse"
	default:
		return "unknown"
	}
}
