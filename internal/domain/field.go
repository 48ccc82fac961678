package domain

// Field: 프로필 레코드의 필드 이름.
// 값은 SPARQL 프로젝션 변수명이자 카드에 표시되는 라벨이다.
type Field string

// Field 상수 목록.
const (
	FieldName          Field = "名前"
	FieldNameReading   Field = "名前ルビ"
	FieldAffiliation   Field = "所属"
	FieldGender        Field = "性別"
	FieldAge           Field = "年齢"
	FieldHeight        Field = "身長"
	FieldWeight        Field = "体重"
	FieldMeasurements  Field = "BWH"
	FieldBirthDate     Field = "誕生日"
	FieldConstellation Field = "星座"
	FieldBloodType     Field = "血液型"
	FieldHandedness    Field = "利き手"
	FieldBirthplace    Field = "出身地"
	FieldHobbies       Field = "趣味"
	FieldFavorites     Field = "好きなもの"
	FieldDescription   Field = "説明"
	FieldAccentColor   Field = "カラー"
	FieldVoiceCredit   Field = "CV"
	FieldProfileURL    Field = "URL"
)

// Fields: 프로젝션 순서와 동일한 정규 필드 순서
var Fields = []Field{
	FieldName,
	FieldNameReading,
	FieldAffiliation,
	FieldGender,
	FieldAge,
	FieldHeight,
	FieldWeight,
	FieldMeasurements,
	FieldBirthDate,
	FieldConstellation,
	FieldBloodType,
	FieldHandedness,
	FieldBirthplace,
	FieldHobbies,
	FieldFavorites,
	FieldDescription,
	FieldAccentColor,
	FieldVoiceCredit,
	FieldProfileURL,
}

var knownFields = func() map[Field]struct{} {
	set := make(map[Field]struct{}, len(Fields))
	for _, f := range Fields {
		set[f] = struct{}{}
	}
	return set
}()

// IsKnownField: 열거된 19개 필드 중 하나인지 확인한다.
func IsKnownField(name string) bool {
	_, ok := knownFields[Field(name)]
	return ok
}

func (f Field) String() string {
	return string(f)
}
