package domain

// record: 필드 이름 -> 값. 키가 없으면 "알 수 없음"이며 빈 문자열과 구분된다.
type record struct {
	values map[Field]string
}

func newRecord(values map[Field]string) record {
	copied := make(map[Field]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return record{values: copied}
}

// Get: 필드 값을 반환한다. 필드가 없으면 ok=false.
func (r record) Get(f Field) (string, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Value: 필드 값을 반환한다. 없으면 빈 문자열.
func (r record) Value(f Field) string {
	return r.values[f]
}

// Has: 필드 존재 여부
func (r record) Has(f Field) bool {
	_, ok := r.values[f]
	return ok
}

// Present: 존재하는 필드를 정규 순서대로 반환한다.
func (r record) Present() []Field {
	present := make([]Field, 0, len(r.values))
	for _, f := range Fields {
		if _, ok := r.values[f]; ok {
			present = append(present, f)
		}
	}
	return present
}

// Len: 존재하는 필드 수
func (r record) Len() int {
	return len(r.values)
}

// Map: 값의 복사본을 반환한다.
func (r record) Map() map[Field]string {
	copied := make(map[Field]string, len(r.values))
	for k, v := range r.values {
		copied[k] = v
	}
	return copied
}

// RawRecord: 데이터 소스가 반환한 원본 레코드 (아이돌 또는 스태프 1명)
type RawRecord struct {
	record
}

// NewRawRecord: 값 맵을 복사하여 RawRecord를 만든다.
func NewRawRecord(values map[Field]string) RawRecord {
	return RawRecord{record: newRecord(values)}
}

// LocalizedRecord: 표시용으로 변환된 레코드 (라벨, 단위, 날짜 포맷 적용)
type LocalizedRecord struct {
	record
}

// NewLocalizedRecord: 값 맵을 복사하여 LocalizedRecord를 만든다.
func NewLocalizedRecord(values map[Field]string) LocalizedRecord {
	return LocalizedRecord{record: newRecord(values)}
}
