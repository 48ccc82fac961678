package sparql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/util"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// Fetcher: SPARQL 쿼리를 실행하여 프로필 레코드를 돌려주는 인터페이스
type Fetcher interface {
	FetchProfiles(ctx context.Context, query string) ([]domain.RawRecord, error)
}

// Observer: 요청 결과(outcome)와 소요 시간을 수집하는 훅 (메트릭 연동용)
type Observer interface {
	ObserveSparqlRequest(outcome string, elapsed time.Duration)
}

// 요청 결과 라벨
const (
	OutcomeSuccess     = "success"
	OutcomeHTTPError   = "http_error"
	OutcomeNetwork     = "network_error"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeParseError  = "parse_error"
)

// ClientConfig: SPARQL 클라이언트 설정
type ClientConfig struct {
	Endpoint          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	FailureThreshold  int
	ResetTimeout      time.Duration
	Tracing           bool
}

// DefaultClientConfig: constants 기반 기본 설정을 반환한다.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoint:          constants.SparqlConfig.Endpoint,
		Timeout:           constants.SparqlConfig.Timeout,
		RequestsPerSecond: constants.RateLimitConfig.RequestsPerSecond,
		Burst:             constants.RateLimitConfig.Burst,
		MaxAttempts:       constants.RetryConfig.MaxAttempts,
		BaseDelay:         constants.RetryConfig.BaseDelay,
		MaxDelay:          constants.RetryConfig.MaxDelay,
		FailureThreshold:  constants.CircuitBreakerConfig.FailureThreshold,
		ResetTimeout:      constants.CircuitBreakerConfig.ResetTimeout,
	}
}

// Client: im@sparql 엔드포인트 HTTP 클라이언트
// 속도 제한(Rate Limiting), 서킷 브레이커, 지수 백오프 재시도를 포함한다.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *util.CircuitBreaker
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	observer    Observer
	logger      *slog.Logger
}

// NewClient: 새로운 SPARQL 클라이언트를 생성한다.
// httpClient가 nil이면 설정된 타임아웃으로 전용 클라이언트를 만든다.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = constants.SparqlConfig.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.SparqlConfig.Timeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if httpClient == nil {
		httpClient = newHTTPClient(cfg)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(limit, burst),
		breaker:     util.NewCircuitBreaker("sparql", cfg.FailureThreshold, cfg.ResetTimeout, logger),
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    cfg.MaxDelay,
		logger:      logger,
	}
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxConnsPerHost:     constants.SparqlTransportConfig.MaxConnsPerHost,
		MaxIdleConnsPerHost: constants.SparqlTransportConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:     constants.SparqlTransportConfig.IdleConnTimeout,
	}
	if cfg.Tracing {
		transport = otelhttp.NewTransport(transport)
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

// SetObserver: 메트릭 수집 훅을 등록한다.
func (c *Client) SetObserver(observer Observer) {
	c.observer = observer
}

// CircuitStatus: 서킷 브레이커 상태 스냅샷 (헬스 체크용)
func (c *Client) CircuitStatus() util.CircuitBreakerStatus {
	return c.breaker.GetStatus()
}

// FetchProfiles: 쿼리를 실행하고 바인딩을 RawRecord 목록으로 변환한다.
// 전송 실패/비정상 상태 코드는 *errors.FetchError, 응답 구조 오류는 *errors.ParseError.
func (c *Client) FetchProfiles(ctx context.Context, query string) ([]domain.RawRecord, error) {
	bindings, err := c.Select(ctx, query)
	if err != nil {
		return nil, err
	}
	return ToRawRecords(bindings), nil
}

// Select: 쿼리를 실행하고 변수명 -> 값 형태의 바인딩 목록을 반환한다.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	start := time.Now()

	body, err := c.Query(ctx, query)
	if err != nil {
		c.observe(outcomeOf(err), start)
		return nil, err
	}

	bindings, err := DecodeBindings(body)
	if err != nil {
		c.observe(OutcomeParseError, start)
		return nil, err
	}

	c.observe(OutcomeSuccess, start)
	return bindings, nil
}

// Query: 쿼리를 GET ?query=...&output=json 으로 전송하고 응답 본문을 반환한다.
// 네트워크 오류와 5xx 응답만 재시도한다.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewFetchError("rate_limit", 0, err)
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.Warn("SPARQL circuit breaker is open", slog.Any("error", err))
		return nil, errors.NewFetchError("circuit_open", 0, err)
	}

	reqURL := c.buildRequestURL(query)
	attempt := 0

	var body []byte
	operation := func() error {
		attempt++
		b, err := c.doRequest(ctx, reqURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	notify := func(err error, delay time.Duration) {
		c.logger.Warn("SPARQL request failed, retrying",
			slog.Any("error", err),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
		)
	}

	if err := backoff.RetryNotify(operation, c.newBackOff(ctx), notify); err != nil {
		var fetchErr *errors.FetchError
		if !asFetchError(err, &fetchErr) {
			fetchErr = errors.NewFetchError("query", 0, err)
		}
		// 4xx는 엔드포인트가 응답한 것이므로 서킷 실패로 세지 않는다.
		if fetchErr.StatusCode == 0 || fetchErr.StatusCode >= http.StatusInternalServerError {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return nil, fetchErr
	}

	c.breaker.RecordSuccess()
	return body, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.baseDelay > 0 {
		exp.InitialInterval = c.baseDelay
	}
	if c.maxDelay > 0 {
		exp.MaxInterval = c.maxDelay
	}
	exp.Multiplier = 2.0
	exp.RandomizationFactor = constants.RetryConfig.Jitter
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1))
	return backoff.WithContext(b, ctx)
}

func (c *Client) buildRequestURL(query string) string {
	params := url.Values{}
	params.Set("query", query)
	params.Set("output", "json")
	return c.endpoint + "?" + params.Encode()
}

// doRequest: 단일 HTTP 시도. 재시도하지 않을 오류는 backoff.Permanent로 감싼다.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(errors.NewFetchError("build_request", 0, err))
	}
	req.Header.Set("Accept", "application/sparql-results+json, application/json")
	req.Header.Set("User-Agent", constants.SparqlConfig.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchErr := errors.NewFetchError("request", 0, err)
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fetchErr)
		}
		return nil, fetchErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewFetchError("read_body", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		fetchErr := errors.NewFetchError("request", resp.StatusCode,
			fmt.Errorf("unexpected status: %s", util.TruncateString(string(body), 200)))
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fetchErr
		}
		return nil, backoff.Permanent(fetchErr)
	}

	return body, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveSparqlRequest(outcome, time.Since(start))
}

func outcomeOf(err error) string {
	var fetchErr *errors.FetchError
	if !asFetchError(err, &fetchErr) {
		return OutcomeNetwork
	}
	switch {
	case fetchErr.Operation == "circuit_open":
		return OutcomeCircuitOpen
	case fetchErr.StatusCode != 0:
		return OutcomeHTTPError
	default:
		return OutcomeNetwork
	}
}
