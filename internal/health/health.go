// Package health: 서비스 상태 정보
package health

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

// 상태 값
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// ComponentStatus: 의존 구성요소 하나의 상태
type ComponentStatus struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Probe: 구성요소 상태 확인 함수
type Probe func(ctx context.Context) ComponentStatus

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	Goroutines int                        `json:"goroutines"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
}

// Get: 현재 상태 반환. 구성요소 중 하나라도 ok가 아니면 degraded.
func Get(ctx context.Context, probes map[string]Probe) Response {
	resp := Response{
		Status:     StatusOK,
		Version:    version,
		Uptime:     GetUptime(),
		Goroutines: runtime.NumGoroutine(),
	}
	if len(probes) == 0 {
		return resp
	}

	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	resp.Components = make(map[string]ComponentStatus, len(probes))
	for _, name := range names {
		status := probes[name](ctx)
		resp.Components[name] = status
		if status.Status != StatusOK {
			resp.Status = StatusDegraded
		}
	}
	return resp
}

// GetVersion: 현재 버전 반환
func GetVersion() string {
	return version
}

// GetUptime: 현재 uptime 반환 (포맷팅된 문자열)
func GetUptime() string {
	return formatDuration(time.Since(startTime))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
