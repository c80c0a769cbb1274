package topic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen 是参与关键词匹配的最小 token 长度（rune 计）。
const minTokenLen = 3

// stripDiacritics 先 NFD 分解再去掉组合符号（Mn），"fútbol" -> "futbol"。
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize 归一化自由文本：小写、去变音符、压缩空白、去首尾空白。
func Normalize(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return ""
	}
	if out, _, err := transform.String(stripDiacritics, text); err == nil {
		text = out
	}
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTopic 归一化 topic 标签：小写 + 去首尾空白。
func NormalizeTopic(t string) string {
	return strings.TrimSpace(strings.ToLower(t))
}

// normalizeToken 归一化单个 token：Normalize 后剥掉前导 '#'。
func normalizeToken(tok string) string {
	return strings.TrimLeft(Normalize(tok), "#")
}

// Tokenize 将已归一化的文本切分为 token：
// 按非字母数字（'#' 除外）切分，剥掉前导 '#'，丢弃过短 token。
func Tokenize(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '#'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimLeft(f, "#")
		if len([]rune(f)) < minTokenLen {
			continue
		}
		out = append(out, f)
	}
	return out
}
