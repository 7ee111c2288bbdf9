package utils

import (
	"strings"
	"unicode"
)

// DeduplicateSlice 去重字符串切片
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// CalculateTokens 估算文本的token数量：中文字符2token，英文单词1token
func CalculateTokens(text string) int {
	chinese := 0

	// 计算中文字符数
	for _, r := range text {
		if r >= '\u4e00' && r <= '\u9fa5' {
			chinese++
		}
	}

	// 计算英文单词数
	english := len(strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	}))

	return chinese*2 + english
}

// TakeByTokens 按顺序取文本，累计token数不超过 maxTokens，至少保留一条
func TakeByTokens(texts []string, maxTokens int) []string {
	result := make([]string, 0, len(texts))
	tokenCount := 0
	for _, t := range texts {
		n := CalculateTokens(t)
		if tokenCount+n > maxTokens && len(result) > 0 {
			break
		}
		result = append(result, t)
		tokenCount += n
	}
	return result
}

// Preview 截断日志中过长的文本
func Preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}

// FilterSpecialSymbols 过滤文本中的特殊符号，只保留文字、数字和常见标点
func FilterSpecialSymbols(text string) string {
	commonPunctuation := map[rune]bool{
		'，': true, '。': true, '！': true, '？': true, '：': true, '；': true,
		'、': true, '（': true, '）': true, '《': true, '》': true,
		',': true, '.': true, '!': true, '?': true, ':': true, ';': true,
		'\'': true, '(': true, ')': true, '-': true, '&': true, '/': true,
		'+': true, '%': true, '$': true, ' ': true,
	}

	var result strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || commonPunctuation[r] {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// CleanGeneratedTitle 清理模型返回的标题：取第一行非空内容，去掉markdown标题、前缀和引号
func CleanGeneratedTitle(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "#*"))
		for _, prefix := range []string{"Title:", "title:", "标题：", "标题:"} {
			line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
		line = strings.Trim(line, "\"'`“”‘’*")
		line = strings.Join(strings.Fields(FilterSpecialSymbols(line)), " ")
		if line != "" {
			return line
		}
	}
	return ""
}
