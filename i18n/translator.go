package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "field required",
		"unknown_key":    "extra fields not permitted",
		"too_small":      "value is below the minimum",
		"too_big":        "value is above the maximum",
		"too_short":      "too short",
		"too_long":       "too long",
		"pattern":        "value does not match pattern",
		"invalid_enum":   "value is not a permitted enumeration member",
		"invalid_const":  "value does not equal the constant",
		"not_multiple":   "value is not a multiple of {multipleOf}",
		"contains":       "contains constraint not satisfied",
		"uniqueness":     "array items are not unique",
		"tuple":          "array does not match the tuple definition",
		"parse_error":    "parse error",
		"unresolved_ref": "reference was never resolved",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"too_small":      "最小値を下回っています",
		"too_big":        "最大値を超えています",
		"too_short":      "短すぎます",
		"too_long":       "長すぎます",
		"pattern":        "パターンに一致しません",
		"invalid_enum":   "列挙値に含まれていません",
		"invalid_const":  "定数と一致しません",
		"not_multiple":   "{multipleOf} の倍数ではありません",
		"contains":       "contains 条件を満たしていません",
		"uniqueness":     "配列の要素が重複しています",
		"tuple":          "タプル定義に一致しません",
		"parse_error":    "解析エラー",
		"unresolved_ref": "参照が解決されていません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict, ok := dictionaries[t.lang]
	if !ok {
		dict = dictionaries["en"]
	}
	msg, ok := dict[code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
