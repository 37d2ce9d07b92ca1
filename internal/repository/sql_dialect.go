package repository

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '\' 使用。
func escapeLike(raw string) string {
	return likeEscaper.Replace(raw)
}

// keyPrefixCondition 构建按字面前缀匹配的条件，兼容 sqlite 与 postgres。
func keyPrefixCondition(db *gorm.DB, column, prefix string) (string, []interface{}) {
	return keyPrefixConditionByDialect(dbDialectName(db), column, prefix)
}

func keyPrefixConditionByDialect(dialect, column, prefix string) (string, []interface{}) {
	pattern := escapeLike(prefix) + "%"
	switch dialect {
	case "postgres", "postgresql":
		return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, column), []interface{}{pattern}
	default:
		// sqlite 的 LIKE 对 ASCII 不区分大小写，再比较一次前缀
		condition := fmt.Sprintf(`%s LIKE ? ESCAPE '\' AND substr(%s, 1, ?) = ?`, column, column)
		return condition, []interface{}{pattern, utf8.RuneCountInString(prefix), prefix}
	}
}
