package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional values interpolated into "{key}" placeholders (for
// example, "type" or "input").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogue = map[string]map[string]string{
	"en": {
		"required":       "This field is required.",
		"null":           "This field may not be null.",
		"invalid":        "A valid {type} is required.",
		"invalid_choice": "\"{input}\" is not a valid choice.",
		"not_a_dict":     "Expected a dictionary of items but got type \"{type}\".",
		"not_a_list":     "Expected a list of items but got type \"{type}\".",
		"assignment":     "Cannot assign value of type {type} to this field.",
		"parse_error":    "Malformed input.",
	},
	"ja": {
		"required":       "この項目は必須です。",
		"null":           "この項目は null にできません。",
		"invalid":        "有効な {type} を指定してください。",
		"invalid_choice": "\"{input}\" は有効な選択肢ではありません。",
		"not_a_dict":     "辞書が必要ですが \"{type}\" 型が渡されました。",
		"not_a_list":     "リストが必要ですが \"{type}\" 型が渡されました。",
		"assignment":     "{type} 型の値はこの項目に代入できません。",
		"parse_error":    "入力を解析できません。",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogue[t.lang][code]
	if !ok {
		msg, ok = catalogue["en"][code]
	}
	if !ok {
		return code
	}
	return interpolate(msg, data)
}

func interpolate(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	translatorMu      sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalogue[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	translatorMu.Lock()
	currentTranslator = tr
	translatorMu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	translatorMu.RLock()
	tr := currentTranslator
	translatorMu.RUnlock()
	return tr.Message(code, data)
}
