package sparql

import (
	"bytes"
	stdErrors "errors"

	"github.com/goccy/go-json"

	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// Binding: 결과 한 행. 변수명 -> 값(value 문자열)
type Binding map[string]string

type resultsEnvelope struct {
	Results *struct {
		Bindings json.RawMessage `json:"bindings"`
	} `json:"results"`
}

type bindingTerm struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// DecodeBindings: SPARQL JSON 결과에서 results.bindings 배열을 추출한다.
// results 또는 bindings 배열이 없으면 *errors.ParseError를 반환한다.
func DecodeBindings(body []byte) ([]Binding, error) {
	var envelope resultsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.NewParseError("invalid json payload", err)
	}
	if envelope.Results == nil {
		return nil, errors.NewParseError("missing results object", nil)
	}

	raw := bytes.TrimSpace(envelope.Results.Bindings)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.NewParseError("missing results.bindings", nil)
	}
	if raw[0] != '[' {
		return nil, errors.NewParseError("results.bindings is not an array", nil)
	}

	var rows []map[string]bindingTerm
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, errors.NewParseError("malformed binding row", err)
	}

	bindings := make([]Binding, 0, len(rows))
	for _, row := range rows {
		binding := make(Binding, len(row))
		for name, term := range row {
			binding[name] = term.Value
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}

// ToRawRecords: 바인딩을 RawRecord로 변환한다. 알려지지 않은 변수는 무시한다.
func ToRawRecords(bindings []Binding) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(bindings))
	for _, binding := range bindings {
		values := make(map[domain.Field]string, len(binding))
		for name, value := range binding {
			if !domain.IsKnownField(name) {
				continue
			}
			values[domain.Field(name)] = value
		}
		records = append(records, domain.NewRawRecord(values))
	}
	return records
}

func asFetchError(err error, target **errors.FetchError) bool {
	return stdErrors.As(err, target)
}
