package utils

import (
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugForbidden  = regexp.MustCompile(`[^a-z0-9-]+`)
)

var slugReplacements = map[rune]string{
	'á': "a", 'à': "a", 'ä': "a", 'â': "a",
	'é': "e", 'è': "e", 'ë': "e", 'ê': "e",
	'í': "i", 'ì': "i", 'ï': "i", 'î': "i",
	'ó': "o", 'ò': "o", 'ö': "o", 'ô': "o",
	'ú': "u", 'ù': "u", 'ü': "u", 'û': "u",
	'ñ': "n", 'ç': "c",
}

// Slugify строит системный идентификатор из произвольного текста.
// "Domo PTZ-Hikvision-DS-2" -> "domo-ptz-hikvision-ds-2", "Cámara Bala" -> "camara-bala"
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	var sb strings.Builder
	for _, r := range s {
		if repl, ok := slugReplacements[r]; ok {
			sb.WriteString(repl)
		} else {
			sb.WriteRune(r)
		}
	}

	res := slugWhitespace.ReplaceAllString(sb.String(), "-")
	return slugForbidden.ReplaceAllString(res, "")
}
