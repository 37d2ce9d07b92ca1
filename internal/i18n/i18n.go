package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleES = "es"
	LocaleEN = "en"

	// DefaultLocale 店铺面向西语用户
	DefaultLocale = LocaleES
)

var matcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
})

// ResolveLocale 解析请求语言：?lang 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Normalize(lang)
	}
	return FromAcceptLanguage(c.GetHeader("Accept-Language"))
}

// FromAcceptLanguage 从 Accept-Language 头匹配支持的语言
func FromAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index == 1 {
		return LocaleEN
	}
	return LocaleES
}

// Normalize 规范化语言标识，不支持时回退默认语言
func Normalize(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return DefaultLocale
	}
	base, _ := tag.Base()
	switch base.String() {
	case LocaleEN:
		return LocaleEN
	case LocaleES:
		return LocaleES
	default:
		return DefaultLocale
	}
}

// T 获取翻译文本，缺失时依次回退到默认语言和 key 本身
func T(locale, key string) string {
	if msgs, ok := messages[Normalize(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 获取翻译模板并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
