// internal/analysis/features.go
package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Corphon/PersonaForge/internal/models"
)

// 标点风格常量
const (
	StyleEnthusiastic  = "enthusiastic"
	StyleInquisitive   = "inquisitive"
	StyleContemplative = "contemplative"
	StyleExpressive    = "expressive"
	StyleStandard      = "standard"
)

// 情感极性常量
const (
	PolarityPositive = "positive"
	PolarityNegative = "negative"
	PolarityNeutral  = "neutral"
)

var (
	contractionPattern = regexp.MustCompile(`'(ll|re|ve|d|t|s|m)\b`)
	uppercaseRunRe     = regexp.MustCompile(`[A-Z]{2,}`)
	ellipsisRe         = regexp.MustCompile(`\.{2,}`)
	dashRe             = regexp.MustCompile(`--?`)
)

// Analyze 对文本执行全部特征提取，返回不可变的特征向量
// 对相同输入结果恒定，各提取器互不共享状态
// 调用方应在调用前完成最小长度校验（50字符），本函数自身不设硬性下限
func Analyze(text string) models.FeatureVector {
	tokens := Tokenize(text)
	sentences := SplitSentences(text)

	avgWords := 0.0
	if len(sentences) > 0 {
		avgWords = float64(len(tokens)) / float64(len(sentences))
	}

	questionRatio, exclamationRatio := sentenceMarkRatios(text)

	return models.FeatureVector{
		WordCount:           len(tokens),
		SentenceCount:       len(sentences),
		AvgWordsPerSentence: avgWords,
		Sentiment:           ExtractSentiment(tokens),
		Formality:           extractFormality(tokens, sentences, text),
		Energy:              extractEnergy(tokens, text),
		Topics:              extractTopics(tokens),
		Vocabulary:          extractVocabulary(tokens),
		Punctuation:         extractPunctuation(text),
		EmojiUsage:          extractEmojiUsage(text),
		QuestionRatio:       questionRatio,
		ExclamationRatio:    exclamationRatio,
	}
}

// ExtractSentiment 基于封闭词表统计情感倾向
// 无任何命中时返回neutral且强度固定为0.3，表示"默认弱置信"而非零信号
// 回复生成器复用本函数对单条用户消息做轻量情感判断
func ExtractSentiment(tokens []string) models.Sentiment {
	positive := 0
	negative := 0
	for _, t := range tokens {
		if containsWord(positiveWords, t) {
			positive++
		}
		if containsWord(negativeWords, t) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 || len(tokens) == 0 {
		return models.Sentiment{Polarity: PolarityNeutral, Strength: 0.3}
	}

	strength := clamp01(float64(total) / float64(len(tokens)) * 10)

	polarity := PolarityNeutral
	if positive > negative {
		polarity = PolarityPositive
	} else if negative > positive {
		polarity = PolarityNegative
	}

	return models.Sentiment{Polarity: polarity, Strength: strength}
}

// extractFormality 计算正式度，0.5为中性默认
func extractFormality(tokens, sentences []string, text string) float64 {
	formalScore := 0.0
	informalScore := 0.0

	for _, t := range tokens {
		if containsWord(formalIndicators, t) {
			formalScore++
		}
		if containsWord(informalIndicators, t) {
			informalScore++
		}
	}

	// 缩写的撇号在分词阶段已被剔除，只能对原文统计
	contractions := len(contractionPattern.FindAllString(strings.ToLower(text), -1))

	if len(sentences) > 0 {
		avgLen := float64(len(tokens)) / float64(len(sentences))
		if avgLen > 20 {
			formalScore += 2
		}
	}

	if len(tokens) > 0 {
		contractionRatio := float64(contractions) / float64(len(tokens))
		if contractionRatio > 0.1 {
			informalScore += 3
		}
	}

	if formalScore+informalScore == 0 {
		return 0.5
	}
	return clamp01(formalScore / (formalScore + informalScore))
}

// extractEnergy 计算能量值并归一化到[0,1]
// 高能词+2，低能词-1，原文每个感叹号+2，每段连续大写(≥2字母)+1
func extractEnergy(tokens []string, text string) float64 {
	if len(tokens) == 0 {
		return 0.5
	}

	score := 0.0
	for _, t := range tokens {
		if containsWord(highEnergyWords, t) {
			score += 2
		}
		if containsWord(lowEnergyWords, t) {
			score--
		}
	}

	score += float64(strings.Count(text, "!")) * 2
	score += float64(len(uppercaseRunRe.FindAllString(text, -1)))

	n := float64(len(tokens))
	return clamp01((score + n*0.3) / (n * 0.8))
}

// extractTopics 返回得分非零的前3个话题，按得分降序
// 关键词为子串匹配；平分时按话题声明顺序
func extractTopics(tokens []string) []string {
	type topicScore struct {
		name  string
		score int
		order int
	}

	scores := make([]topicScore, 0, len(topicLexicons))
	for i, tl := range topicLexicons {
		count := 0
		for _, token := range tokens {
			for _, kw := range tl.Keywords {
				if strings.Contains(token, kw) {
					count++
					break
				}
			}
		}
		if count > 0 {
			scores = append(scores, topicScore{tl.Name, count, i})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].order < scores[j].order
	})

	if len(scores) > 3 {
		scores = scores[:3]
	}
	topics := make([]string, len(scores))
	for i, s := range scores {
		topics[i] = s.name
	}
	return topics
}

// extractVocabulary 计算词汇丰富度与高频词
func extractVocabulary(tokens []string) models.Vocabulary {
	if len(tokens) == 0 {
		return models.Vocabulary{Richness: 0, FrequentWords: []string{}}
	}

	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, t := range tokens {
		if _, ok := freq[t]; !ok {
			firstSeen[t] = i
		}
		freq[t]++
	}

	richness := clamp01(float64(len(freq)) / float64(len(tokens)))

	// 出现超过1次且长度大于3的词，按频次降序取前8，平分按首现顺序
	candidates := make([]string, 0)
	for word, count := range freq {
		if count > 1 && len(word) > 3 {
			candidates = append(candidates, word)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if freq[candidates[i]] != freq[candidates[j]] {
			return freq[candidates[i]] > freq[candidates[j]]
		}
		return firstSeen[candidates[i]] < firstSeen[candidates[j]]
	})
	if len(candidates) > 8 {
		candidates = candidates[:8]
	}

	return models.Vocabulary{Richness: richness, FrequentWords: candidates}
}

// extractPunctuation 统计标点密度并判定风格
// 风格按优先级取首个命中：感叹>2→enthusiastic，疑问>2→inquisitive，
// 省略号>1→contemplative，破折号>1→expressive，否则standard
func extractPunctuation(text string) models.Punctuation {
	exclamations := strings.Count(text, "!")
	questions := strings.Count(text, "?")
	ellipses := len(ellipsisRe.FindAllString(text, -1))
	dashes := len(dashRe.FindAllString(text, -1))

	density := 0.0
	if len(text) > 0 {
		density = float64(exclamations+questions+ellipses+dashes) / float64(len(text))
	}

	style := StyleStandard
	switch {
	case exclamations > 2:
		style = StyleEnthusiastic
	case questions > 2:
		style = StyleInquisitive
	case ellipses > 1:
		style = StyleContemplative
	case dashes > 1:
		style = StyleExpressive
	}

	return models.Punctuation{Density: density, Style: style}
}

// extractEmojiUsage 按Unicode区间检出emoji
func extractEmojiUsage(text string) models.EmojiUsage {
	count := 0
	seen := make(map[rune]bool)
	favorites := make([]string, 0, 5)

	for _, r := range text {
		if !isEmoji(r) {
			continue
		}
		count++
		if !seen[r] {
			seen[r] = true
			if len(favorites) < 5 {
				favorites = append(favorites, string(r))
			}
		}
	}

	density := 0.0
	if len(text) > 0 {
		density = float64(count) / float64(len(text))
	}

	return models.EmojiUsage{
		Count:     count,
		Unique:    len(seen),
		Favorites: favorites,
		Density:   density,
	}
}

// sentenceMarkRatios 统计带问号/感叹号结尾的句子占比
func sentenceMarkRatios(text string) (question, exclamation float64) {
	terms := sentenceTerminators(text)
	if len(terms) == 0 {
		return 0, 0
	}

	questions := 0
	exclamations := 0
	for _, t := range terms {
		if strings.Contains(t, "?") {
			questions++
		}
		if strings.Contains(t, "!") {
			exclamations++
		}
	}

	n := float64(len(terms))
	return clamp01(float64(questions) / n), clamp01(float64(exclamations) / n)
}

// clamp01 将值裁剪到[0,1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
