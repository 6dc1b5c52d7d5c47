// internal/chat/generator.go
package chat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Corphon/PersonaForge/internal/analysis"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/persona"
	"github.com/Corphon/PersonaForge/internal/rng"
)

// 正式化改写：缩写展开；随意化改写为其逆映射
// 替换不区分大小写，输出统一使用标准写法
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var expandRules = []rewriteRule{
	{regexp.MustCompile(`(?i)\bthat's\b`), "that is"},
	{regexp.MustCompile(`(?i)\bcan't\b`), "cannot"},
	{regexp.MustCompile(`(?i)\bwon't\b`), "will not"},
	{regexp.MustCompile(`(?i)\bi'm\b`), "I am"},
	{regexp.MustCompile(`(?i)\byou're\b`), "you are"},
}

var contractRules = []rewriteRule{
	{regexp.MustCompile(`(?i)\bthat is\b`), "that's"},
	{regexp.MustCompile(`(?i)\bcannot\b`), "can't"},
	{regexp.MustCompile(`(?i)\bwill not\b`), "won't"},
	{regexp.MustCompile(`(?i)\bi am\b`), "I'm"},
	{regexp.MustCompile(`(?i)\byou are\b`), "you're"},
}

// Respond 根据人格档案为一条用户消息生成回复
// 无隐藏状态：回复仅取决于档案、消息与随机源
// 对任意合法字符串输入不报错，空消息应由调用方提前拦截
func Respond(profile *models.PersonaProfile, utterance string, r rng.Rand) string {
	tokens := analysis.Tokenize(utterance)

	var reply string
	if strings.Contains(utterance, "?") {
		reply = respondToQuestion(profile, tokens, r)
	} else {
		reply = respondToStatement(profile, tokens, r)
	}

	return stylize(profile, reply, r)
}

// respondToQuestion 识别疑问词类别并拼接开场与阐述
func respondToQuestion(profile *models.PersonaProfile, tokens []string, r rng.Rand) string {
	category := "general"
	for _, qw := range questionCategories {
		if containsToken(tokens, qw) {
			category = qw
			break
		}
	}

	opener := rng.Pick(r, questionOpeners[category])
	return opener + " " + elaborate(profile, r)
}

// elaborate 追加一句与人格话题或词汇相关的阐述
// 优先主话题阐述库，其次人格高频词模板，最后通用兜底句
func elaborate(profile *models.PersonaProfile, r rng.Rand) string {
	if topic := profile.PrimaryTopic(); topic != "" {
		if lines, ok := topicElaborations[topic]; ok {
			return rng.Pick(r, lines)
		}
	}
	if len(profile.FavoriteWords) > 0 {
		word := rng.Pick(r, profile.FavoriteWords)
		return fmt.Sprintf(favoriteWordElaboration, word)
	}
	return genericElaboration
}

// respondToStatement 对非疑问消息做轻量情感判断后选取反应与跟进句
func respondToStatement(profile *models.PersonaProfile, tokens []string, r rng.Rand) string {
	sentiment := analysis.ExtractSentiment(tokens)
	reaction := rng.Pick(r, reactionTemplates[sentiment.Polarity])

	var followUp string
	switch {
	case profile.HasTrait(persona.TraitCurious):
		followUp = rng.Pick(r, clarifyingQuestions)
	case profile.HasTrait(persona.TraitExpressive) || profile.HasTrait(persona.TraitEnergetic):
		followUp = rng.Pick(r, enthusiasmLines)
	default:
		followUp = rng.Pick(r, reflectiveLines)
	}

	return reaction + " " + followUp
}

// stylize 按人格的正式度与能量对回复做最终修饰
// 随机追加签名短语(概率0.3)与emoji(概率0.4)
func stylize(profile *models.PersonaProfile, reply string, r rng.Rand) string {
	style := profile.CommunicationStyle

	if style.Formality > 0.7 {
		for _, rule := range expandRules {
			reply = rule.pattern.ReplaceAllString(reply, rule.replacement)
		}
	} else if style.Formality < 0.3 {
		for _, rule := range contractRules {
			reply = rule.pattern.ReplaceAllString(reply, rule.replacement)
		}
	}

	if style.Energy > 0.7 && !strings.Contains(reply, "!") {
		reply += "!"
	}

	if r.Float64() < 0.3 && len(profile.SignaturePhrases) > 0 {
		reply += " " + rng.Pick(r, profile.SignaturePhrases)
	}

	if r.Float64() < 0.4 {
		if emojis := strings.Fields(profile.EmojiStyle); len(emojis) > 0 {
			reply += " " + rng.Pick(r, emojis)
		}
	}

	return reply
}

func containsToken(tokens []string, word string) bool {
	for _, t := range tokens {
		if t == word {
			return true
		}
	}
	return false
}
