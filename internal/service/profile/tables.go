package profile

import "github.com/kapu/imas-line-bot-go/internal/domain"

// unknownLabel: 성별/주로 쓰는 손 값이 표에 없을 때의 표시값
const unknownLabel = "不明"

// affiliationLabels: 브랜드/소속 코드 -> 표시명. 표에 없는 코드는 그대로 둔다.
// 구 데이터셋 코드(1st Vision, 315ProIdols 등)와 현재 코드를 함께 담는다.
var affiliationLabels = map[string]string{
	"765AS":           "765Pro (IDOLM@STER)",
	"1stVision":       "765Pro (IDOLM@STER)",
	"1st Vision":      "765Pro (旧プロフィール)",
	"DearlyStars":     "876Pro (DearlyStars)",
	"MillionLive":     "765Pro (MillionLive!)",
	"MillionStars":    "765Pro (MillionLive!)",
	"SideM":           "315Pro (SideM)",
	"315ProIdols":     "315Pro (SideM)",
	"CinderellaGirls": "346Pro (CinderellaGirls)",
	"ShinyColors":     "283Pro (ShinyColors)",
	"283Pro":          "283Pro (ShinyColors)",
	"961ProIdols":     "961Pro (IDOLM@STER)",
	"1054Pro":         "1054Pro (IDOLM@STER)",
	"Other":           "Other",
}

var genderLabels = map[string]string{
	"male":   "男性",
	"female": "女性",
}

var handednessLabels = map[string]string{
	"right": "右利き",
	"left":  "左利き",
	"both":  "両利き",
}

// unitSuffix: 단위를 붙이는 필드와 단위
type unitSuffix struct {
	field domain.Field
	unit  string
}

var unitSuffixes = []unitSuffix{
	{field: domain.FieldAge, unit: "歳"},
	{field: domain.FieldHeight, unit: "cm"},
	{field: domain.FieldWeight, unit: "kg"},
	{field: domain.FieldBloodType, unit: "型"},
}

// AffiliationLabel: 소속 코드의 표시명을 반환한다. 표에 없으면 입력을 그대로 반환한다.
func AffiliationLabel(code string) string {
	if label, ok := affiliationLabels[code]; ok {
		return label
	}
	return code
}
