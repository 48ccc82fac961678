package domain

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

//go:embed data/image_filename.json
var imageFilenameJSON []byte

var imageTableCache struct {
	once sync.Once
	data map[string]string
	err  error
}

// LoadImageTable: 임베딩된 아이돌 이름 -> 이미지 파일명(또는 전체 URL) 테이블을 로드한다.
// 프로세스당 한 번만 파싱하며 이후에는 같은 맵을 반환한다. 반환된 맵은 읽기 전용으로 취급한다.
func LoadImageTable() (map[string]string, error) {
	imageTableCache.once.Do(func() {
		imageTableCache.data, imageTableCache.err = ParseImageTable(imageFilenameJSON)
	})
	if imageTableCache.err != nil {
		return nil, imageTableCache.err
	}
	return imageTableCache.data, nil
}

// ParseImageTable: JSON 객체 {"이름": "파일명"}을 파싱한다.
func ParseImageTable(data []byte) (map[string]string, error) {
	table := make(map[string]string)
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse image table: %w", err)
	}
	return table, nil
}
