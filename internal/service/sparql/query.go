// Package sparql: im@sparql 검색 쿼리 생성, HTTP 전송, 응답 바인딩 파싱을 담당한다.
package sparql

import (
	"fmt"
	"strings"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/domain"
)

const queryPrefixes = `PREFIX schema: <http://schema.org/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX imas: <https://sparql.crssnky.xyz/imasrdf/URIs/imas-schema.ttl#>
PREFIX foaf: <http://xmlns.com/foaf/0.1/>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
`

// 이름 읽기는 세 가지 가나 속성 중 먼저 존재하는 값을 쓴다.
const nameReadingBlock = `  OPTIONAL { ?data imas:nameKana ?nameKana . }
  OPTIONAL { ?data imas:alternateNameKana ?altNameKana . }
  OPTIONAL { ?data imas:givenNameKana ?givenNameKana . }
  BIND(COALESCE(?nameKana, ?altNameKana, ?givenNameKana) AS ?名前ルビ)
`

const profileBlock = `  OPTIONAL { ?data imas:Title ?所属 . }
  OPTIONAL { ?data schema:gender ?性別 . }
  OPTIONAL { ?data foaf:age ?年齢 . }
  OPTIONAL { ?data schema:height ?身長 . }
  OPTIONAL { ?data schema:weight ?体重 . }
  OPTIONAL {
    ?data imas:Bust ?bust ;
          imas:Waist ?waist ;
          imas:Hip ?hip .
    BIND(CONCAT(STR(?bust), "/", STR(?waist), "/", STR(?hip)) AS ?BWH)
  }
  OPTIONAL { ?data imas:Constellation ?星座 . }
  OPTIONAL { ?data imas:BloodType ?血液型 . }
  OPTIONAL { ?data imas:Handedness ?利き手 . }
  OPTIONAL { ?data schema:birthPlace ?出身地 . }
  OPTIONAL { ?data imas:Hobby ?hobby . }
  OPTIONAL { ?data imas:Favorite ?favorite . }
  OPTIONAL { ?data schema:description ?説明 . }
  OPTIONAL {
    ?data imas:Color ?color .
    BIND(CONCAT("#", STR(?color)) AS ?カラー)
  }
  OPTIONAL {
    ?data imas:cv ?CV .
    FILTER(LANG(?CV) = "ja")
  }
  OPTIONAL { ?data imas:IdolListURL ?URL . }
`

// aggregatedFields: 여러 값을 쉼표로 이어 붙이는 필드와 그 원본 변수
var aggregatedFields = map[domain.Field]string{
	domain.FieldHobbies:   "hobby",
	domain.FieldFavorites: "favorite",
}

// textMatchVariables: 이름 검색 시 부분 일치를 검사하는 변수들
var textMatchVariables = []string{"名前", "本名", "nameKana", "altNameKana", "givenNameKana"}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// BuildQuery: 검색 키에 맞는 SPARQL SELECT 문을 만든다.
// 날짜 키는 생일 정규식 필터, 텍스트 키는 이름/본명/가나 부분 일치 필터를 쓴다.
// 투영(19개 필드), GROUP BY, LIMIT은 두 모드가 동일하다.
func BuildQuery(key domain.SearchKey) string {
	var criteria string
	switch k := key.(type) {
	case domain.DateKey:
		criteria = dateCriteria(k)
	case domain.TextKey:
		criteria = textCriteria(k)
	default:
		criteria = textCriteria(domain.TextKey(key.String()))
	}

	var b strings.Builder
	b.WriteString(queryPrefixes)
	b.WriteString("SELECT ")
	b.WriteString(projection())
	b.WriteString("\nWHERE {\n")
	b.WriteString("  ?data rdfs:label ?名前 ;\n")
	b.WriteString("        rdf:type ?type .\n")
	b.WriteString("  FILTER(?type IN (imas:Idol, imas:Staff))\n")
	b.WriteString(nameReadingBlock)
	b.WriteString(criteria)
	b.WriteString(profileBlock)
	b.WriteString("}\nGROUP BY ")
	b.WriteString(groupBy())
	fmt.Fprintf(&b, "\nLIMIT %d\n", constants.SparqlConfig.ResultLimit)
	return b.String()
}

func dateCriteria(key domain.DateKey) string {
	return fmt.Sprintf("  ?data schema:birthDate ?誕生日 .\n  FILTER(REGEX(STR(?誕生日), \"%s\"))\n", key.String())
}

func textCriteria(key domain.TextKey) string {
	literal := EscapeLiteral(string(key))

	conditions := make([]string, 0, len(textMatchVariables))
	for _, v := range textMatchVariables {
		conditions = append(conditions, fmt.Sprintf("CONTAINS(COALESCE(STR(?%s), \"\"), \"%s\")", v, literal))
	}

	var b strings.Builder
	b.WriteString("  OPTIONAL { ?data schema:name ?本名 . }\n")
	b.WriteString("  OPTIONAL { ?data schema:birthDate ?誕生日 . }\n")
	b.WriteString("  FILTER(")
	b.WriteString(strings.Join(conditions, " || "))
	b.WriteString(")\n")
	return b.String()
}

func projection() string {
	parts := make([]string, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		if source, ok := aggregatedFields[f]; ok {
			parts = append(parts, fmt.Sprintf("(GROUP_CONCAT(DISTINCT ?%s; separator=\",\") AS ?%s)", source, f))
			continue
		}
		parts = append(parts, "?"+f.String())
	}
	return strings.Join(parts, " ")
}

func groupBy() string {
	parts := make([]string, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		if _, ok := aggregatedFields[f]; ok {
			continue
		}
		parts = append(parts, "?"+f.String())
	}
	return strings.Join(parts, " ")
}

// EscapeLiteral: 문자열을 SPARQL 큰따옴표 리터럴 안에 안전하게 넣을 수 있도록 이스케이프한다.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// IdolListQuery: 아이돌 명감 URL이 있는 아이돌 전체의 이름/URL 목록 쿼리 (이미지 테이블 생성용)
func IdolListQuery() string {
	var b strings.Builder
	b.WriteString(queryPrefixes)
	b.WriteString("SELECT DISTINCT ?name ?url\nWHERE {\n")
	b.WriteString("  ?data rdfs:label ?name ;\n")
	b.WriteString("        imas:IdolListURL ?url .\n")
	b.WriteString("}\nORDER BY ?name\n")
	return b.String()
}
