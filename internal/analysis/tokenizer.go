// internal/analysis/tokenizer.go
package analysis

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	sentenceDelimiter = regexp.MustCompile(`[.!?]+`)
)

// Tokenize 将文本规范化为小写词序列
// 非词字符替换为空格后按空白切分，空串剔除，保留重复与顺序
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	cleaned := nonWordPattern.ReplaceAllString(lowered, " ")
	return strings.Fields(cleaned)
}

// SplitSentences 按句末标点（.!?的连续串）切分文本
// 每段去除首尾空白，空段剔除；无句末标点的残余文本仍计为一句
func SplitSentences(text string) []string {
	parts := sentenceDelimiter.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// sentenceTerminators 返回每句对应的句末标点串
// 与SplitSentences同序，用于问句/感叹句占比统计
// 无句末标点的残余句对应空串
func sentenceTerminators(text string) []string {
	matches := sentenceDelimiter.FindAllStringIndex(text, -1)
	parts := sentenceDelimiter.Split(text, -1)

	terms := make([]string, 0, len(parts))
	matchIdx := 0
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			// 空段被剔除，其后的标点串一并跳过
			if matchIdx < len(matches) {
				matchIdx++
			}
			continue
		}
		if matchIdx < len(matches) {
			m := matches[matchIdx]
			terms = append(terms, text[m[0]:m[1]])
			matchIdx++
		} else {
			terms = append(terms, "")
		}
	}
	return terms
}
