// Package codegen turns schema metadata into Go source: entity structs with
// row-scanning and parameter methods, per-table DAO functions, and shared
// pagination types.
package codegen

import (
	"strings"
	"unicode"
)

// commonInitialisms are word segments rendered in full caps in exported
// identifiers, per Go naming convention.
var commonInitialisms = map[string]string{
	"api":  "API",
	"db":   "DB",
	"html": "HTML",
	"http": "HTTP",
	"id":   "ID",
	"ids":  "IDs",
	"ip":   "IP",
	"json": "JSON",
	"sql":  "SQL",
	"ttl":  "TTL",
	"uid":  "UID",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
}

// splitWords breaks an identifier into words on underscores, dashes, spaces,
// and lower-to-upper case boundaries.
func splitWords(s string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				flush()
			} else if i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

// pascalCase converts an identifier to PascalCase with Go initialism casing:
// "user_id" -> "UserID", "order_items" -> "OrderItems".
func pascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		lower := strings.ToLower(w)
		if up, ok := commonInitialisms[lower]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

// snakeCase converts an identifier to snake_case.
func snakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// lowerCamelCase converts an identifier to lowerCamelCase for function
// parameters: "user_id" -> "userID", "id" -> "id".
func lowerCamelCase(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		lower := strings.ToLower(w)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		if up, ok := commonInitialisms[lower]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// paramName renders a column name as a function parameter identifier,
// escaping Go keywords with a trailing underscore.
func paramName(column string) string {
	name := lowerCamelCase(column)
	if goKeywords[name] {
		return name + "_"
	}
	return name
}

// structName converts a table name to its entity type name.
func structName(tableName string) string {
	return pascalCase(tableName)
}

// enumName builds the enum type name for an ENUM column,
// e.g. table "users" + column "status" -> "UsersStatus".
func enumName(tableName, columnName string) string {
	return pascalCase(tableName) + pascalCase(columnName)
}

// enumVariant converts an enum literal to a variant identifier. Quotes are
// stripped, the rest is PascalCased: "IN_PROGRESS" -> "InProgress".
func enumVariant(value string) string {
	value = strings.Trim(value, "'\"")
	var b strings.Builder
	for _, w := range splitWords(value) {
		lower := strings.ToLower(w)
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

// findByMethodName builds a lookup method name from predicate columns,
// e.g. ["user_id", "device_type"] -> "FindByUserIDAndDeviceType".
func findByMethodName(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pascalCase(c)
	}
	return "FindBy" + strings.Join(parts, "And")
}

// findByListMethodName builds the IN-clause method name for a column,
// pluralized; when the plural equals the singular (e.g. "published") a
// "List" suffix avoids colliding with the scalar finder.
func findByListMethodName(column string) string {
	snake := snakeCase(column)
	plural := pluralize(snake)
	if plural == snake {
		return "FindBy" + pascalCase(snake) + "List"
	}
	return "FindBy" + pascalCase(plural)
}

func deleteByMethodName(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pascalCase(c)
	}
	return "DeleteBy" + strings.Join(parts, "And")
}

func updateByMethodName(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pascalCase(c)
	}
	return "UpdateBy" + strings.Join(parts, "And")
}

// irregularPlurals are common in database contexts.
var irregularPlurals = map[string]string{
	"person": "people",
	"child":  "children",
	"man":    "men",
	"woman":  "women",
	"foot":   "feet",
	"tooth":  "teeth",
	"mouse":  "mice",
	"index":  "indices",
}

var fToVes = map[string]bool{
	"leaf": true, "knife": true, "wife": true, "life": true,
	"shelf": true, "self": true, "half": true, "calf": true,
	"loaf": true, "thief": true,
}

var oToOes = map[string]bool{
	"hero": true, "potato": true, "tomato": true, "echo": true, "veto": true,
}

// pluralize applies English pluralization rules to a word.
func pluralize(word string) string {
	if word == "" {
		return word
	}

	if plural, ok := irregularPlurals[word]; ok {
		return plural
	}

	// analysis -> analyses, basis -> bases
	if strings.HasSuffix(word, "is") && len(word) > 2 {
		return word[:len(word)-2] + "es"
	}

	// knife -> knives
	if stripped, ok := strings.CutSuffix(word, "fe"); ok {
		return stripped + "ves"
	}
	// leaf -> leaves
	if fToVes[word] {
		return word[:len(word)-1] + "ves"
	}

	// hero -> heroes
	if oToOes[word] {
		return word + "es"
	}

	// Past participles used as column names ("published", "deleted") keep
	// their form; callers disambiguate with a suffix instead.
	if strings.HasSuffix(word, "ed") && len(word) > 2 {
		return word
	}

	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh") {
		return word + "es"
	}

	// category -> categories, but key -> keys
	if strings.HasSuffix(word, "y") && len(word) > 1 {
		beforeY := word[len(word)-2]
		if !strings.ContainsRune("aeiou", rune(beforeY)) {
			return word[:len(word)-1] + "ies"
		}
	}

	return word + "s"
}
