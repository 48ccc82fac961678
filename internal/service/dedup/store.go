// Package dedup: LINE 웹훅 재전송으로 같은 이벤트를 두 번 처리하지 않도록 이벤트 ID를 선점한다.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/util"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// Store: 이벤트 ID 선점 저장소
type Store interface {
	// Claim: 처음 보는 ID면 true. 이미 처리(중)인 ID면 false.
	Claim(ctx context.Context, eventID string) (bool, error)
	Close()
}

// Config: Valkey 연결 설정
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// ValkeyStore: SET NX EX 기반 선점 저장소
type ValkeyStore struct {
	client    valkey.Client
	ttl       time.Duration
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewValkeyStore: Valkey에 연결하고 Ping으로 확인한 뒤 저장소를 반환한다.
func NewValkeyStore(cfg Config, logger *slog.Logger) (*ValkeyStore, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{addr},
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		DisableCache:      true,
		PipelineMultiplex: constants.ValkeyConfig.PipelineMultiplex,
		Dialer:            net.Dialer{Timeout: constants.ValkeyConfig.ReadyTimeout},
	})
	if err != nil {
		return nil, errors.NewCacheError("init", addr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ValkeyConfig.ReadyTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("ping", addr, err)
	}

	logger.Info("Dedup store connected",
		slog.String("addr", addr),
		slog.Int("db", cfg.DB),
	)

	return NewValkeyStoreWithClient(client, cfg.TTL, logger), nil
}

// NewValkeyStoreWithClient: 이미 연결된 클라이언트로 저장소를 만든다.
func NewValkeyStoreWithClient(client valkey.Client, ttl time.Duration, logger *slog.Logger) *ValkeyStore {
	if ttl <= 0 {
		ttl = constants.DedupConfig.TTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValkeyStore{client: client, ttl: ttl, logger: logger}
}

// Claim: 이벤트 ID를 TTL 동안 선점한다. 빈 ID는 중복 판별이 불가능하므로 항상 허용한다.
func (s *ValkeyStore) Claim(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}

	key := keyFor(eventID)
	cmd := s.client.B().Set().Key(key).Value(strconv.FormatInt(time.Now().Unix(), 10)).Nx().ExSeconds(int64(s.ttl.Seconds())).Build()

	err := s.client.Do(ctx, cmd).Error()
	switch {
	case err == nil:
		return true, nil
	case util.IsValkeyNil(err):
		s.logger.Debug("Duplicate webhook event skipped", slog.String("event_id", eventID))
		return false, nil
	default:
		return false, errors.NewCacheError("set_nx", key, err)
	}
}

// Ping: 헬스 체크용 연결 확인
func (s *ValkeyStore) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return errors.NewCacheError("ping", "", err)
	}
	return nil
}

// Close: 클라이언트 연결을 닫는다. 여러 번 호출해도 안전하다.
func (s *ValkeyStore) Close() {
	s.closeOnce.Do(func() {
		s.client.Close()
	})
}

// NoopStore: Valkey가 설정되지 않았을 때 쓰는 저장소. 모든 이벤트를 허용한다.
type NoopStore struct{}

func (NoopStore) Claim(context.Context, string) (bool, error) { return true, nil }

func (NoopStore) Close() {}

func keyFor(eventID string) string {
	return fmt.Sprintf("%s%s", constants.DedupConfig.KeyPrefix, eventID)
}
