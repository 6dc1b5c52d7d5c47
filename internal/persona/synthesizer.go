// internal/persona/synthesizer.go
package persona

import (
	"strings"
	"time"

	"github.com/Corphon/PersonaForge/internal/analysis"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/rng"
	"github.com/google/uuid"
)

// 特质名常量，回复生成器依据这些特质选择跟进句
const (
	TraitProfessional = "Professional"
	TraitCasual       = "Casual"
	TraitBalanced     = "Balanced"
	TraitEnergetic    = "Energetic"
	TraitCalm         = "Calm"
	TraitModerate     = "Moderate"
	TraitOptimistic   = "Optimistic"
	TraitThoughtful   = "Thoughtful"
	TraitCurious      = "Curious"
	TraitExpressive   = "Expressive"
	TraitCreative     = "Creative"
	TraitTechSavvy    = "Tech-Savvy"
	TraitStrategic    = "Strategic"
	TraitArticulate   = "Articulate"
)

// Synthesize 将特征向量映射为人格档案
// 评分字段的映射是确定性的，仅模板选择使用注入的随机源
// 每次调用生成唯一ID，档案一经生成即视为不可变
func Synthesize(features models.FeatureVector, originalText string, r rng.Rand) *models.PersonaProfile {
	now := time.Now()
	return &models.PersonaProfile{
		ID:               uuid.NewString(),
		Name:             synthesizeName(features, r),
		Avatar:           synthesizeAvatar(features, r),
		Tagline:          synthesizeTagline(features),
		Traits:           synthesizeTraits(features),
		SignaturePhrases: synthesizePhrases(features, originalText, r),
		FavoriteWords:    synthesizeFavoriteWords(features),
		EmojiStyle:       synthesizeEmojiStyle(features),
		CommunicationStyle: models.CommunicationStyle{
			Formality: features.Formality,
			Energy:    features.Energy,
			Sentiment: features.Sentiment.Polarity,
			Topics:    features.Topics,
		},
		AnalysisData: features,
		CreatedAt:    now,
		LastUpdated:  now,
	}
}

// synthesizeName 按优先级选取前缀桶，再与主话题后缀拼接
func synthesizeName(f models.FeatureVector, r rng.Rand) string {
	var prefixes []string
	switch {
	case f.Energy > 0.7:
		prefixes = highEnergyPrefixes
	case f.Energy < 0.3:
		prefixes = lowEnergyPrefixes
	case hasTopic(f.Topics, analysis.TopicCreativity):
		prefixes = creativePrefixes
	case f.Formality > 0.7:
		prefixes = professionalPrefixes
	default:
		prefixes = friendlyPrefixes
	}

	suffix := defaultNameSuffix
	if len(f.Topics) > 0 {
		if suffixes, ok := topicNameSuffixes[f.Topics[0]]; ok {
			suffix = rng.Pick(r, suffixes)
		}
	}

	return rng.Pick(r, prefixes) + suffix
}

// synthesizeTraits 按固定顺序评估特质规则，最多保留前5个
func synthesizeTraits(f models.FeatureVector) []string {
	traits := make([]string, 0, 8)

	switch {
	case f.Formality > 0.7:
		traits = append(traits, TraitProfessional)
	case f.Formality < 0.3:
		traits = append(traits, TraitCasual)
	default:
		traits = append(traits, TraitBalanced)
	}

	switch {
	case f.Energy > 0.7:
		traits = append(traits, TraitEnergetic)
	case f.Energy < 0.3:
		traits = append(traits, TraitCalm)
	default:
		traits = append(traits, TraitModerate)
	}

	if f.Sentiment.Strength > 0.5 {
		if f.Sentiment.Polarity == analysis.PolarityPositive {
			traits = append(traits, TraitOptimistic)
		} else {
			traits = append(traits, TraitThoughtful)
		}
	}

	if f.QuestionRatio > 0.3 {
		traits = append(traits, TraitCurious)
	}
	if f.ExclamationRatio > 0.3 {
		traits = append(traits, TraitExpressive)
	}

	if hasTopic(f.Topics, analysis.TopicCreativity) {
		traits = append(traits, TraitCreative)
	}
	if hasTopic(f.Topics, analysis.TopicTechnology) {
		traits = append(traits, TraitTechSavvy)
	}
	if hasTopic(f.Topics, analysis.TopicBusiness) {
		traits = append(traits, TraitStrategic)
	}

	if f.Vocabulary.Richness > 0.7 {
		traits = append(traits, TraitArticulate)
	}

	if len(traits) > 5 {
		traits = traits[:5]
	}
	return traits
}

// synthesizePhrases 按规则顺序收集签名短语，最多4条
// 最后尝试从原文提取一句短句（<8词且>10字符）作为原话短语
func synthesizePhrases(f models.FeatureVector, originalText string, r rng.Rand) []string {
	phrases := make([]string, 0, 8)

	if f.Energy > 0.7 {
		phrases = append(phrases, rng.Pick(r, highEnergyPhrases))
	} else if f.Energy < 0.3 {
		phrases = append(phrases, rng.Pick(r, lowEnergyPhrases))
	}

	if f.Formality > 0.7 {
		phrases = append(phrases, rng.Pick(r, formalPhrases))
	} else if f.Formality < 0.3 {
		phrases = append(phrases, rng.Pick(r, casualPhrases))
	}

	if f.Sentiment.Polarity == analysis.PolarityPositive {
		phrases = append(phrases, rng.Pick(r, positivePhrases))
	}

	if hasTopic(f.Topics, analysis.TopicCreativity) {
		phrases = append(phrases, rng.Pick(r, creativityPhrases))
	}
	if hasTopic(f.Topics, analysis.TopicTechnology) {
		phrases = append(phrases, rng.Pick(r, technologyPhrases))
	}

	if extracted := extractShortSentence(originalText); extracted != "" {
		phrases = append(phrases, extracted)
	}

	if len(phrases) > 4 {
		phrases = phrases[:4]
	}
	return phrases
}

// extractShortSentence 返回原文中第一句少于8词且超过10字符的句子
func extractShortSentence(text string) string {
	for _, s := range analysis.SplitSentences(text) {
		words := strings.Fields(s)
		if len(words) < 8 && len(s) > 10 {
			return s
		}
	}
	return ""
}

// synthesizeFavoriteWords 取高频词前6个
func synthesizeFavoriteWords(f models.FeatureVector) []string {
	words := f.Vocabulary.FrequentWords
	if len(words) > 6 {
		words = words[:6]
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// synthesizeEmojiStyle 合并能量桶、各命中话题、情感极性与用户自身偏好的emoji
// 按首现顺序去重，取前6个，以空格连接
func synthesizeEmojiStyle(f models.FeatureVector) string {
	sets := make([][]string, 0, 6)

	switch {
	case f.Energy > 0.7:
		sets = append(sets, highEnergyEmojis)
	case f.Energy < 0.3:
		sets = append(sets, lowEnergyEmojis)
	default:
		sets = append(sets, midEnergyEmojis)
	}

	for _, topic := range f.Topics {
		if emojis, ok := topicEmojis[topic]; ok {
			sets = append(sets, emojis)
		}
	}

	switch f.Sentiment.Polarity {
	case analysis.PolarityPositive:
		sets = append(sets, positiveEmojis)
	case analysis.PolarityNegative:
		sets = append(sets, negativeEmojis)
	default:
		sets = append(sets, neutralEmojis)
	}

	sets = append(sets, f.EmojiUsage.Favorites)

	seen := make(map[string]bool)
	result := make([]string, 0, 6)
	for _, set := range sets {
		for _, e := range set {
			if seen[e] {
				continue
			}
			seen[e] = true
			result = append(result, e)
			if len(result) == 6 {
				return strings.Join(result, " ")
			}
		}
	}
	return strings.Join(result, " ")
}

// synthesizeAvatar 按优先级选取头像桶后随机取一个emoji
func synthesizeAvatar(f models.FeatureVector, r rng.Rand) string {
	var bucket []string
	switch {
	case hasTopic(f.Topics, analysis.TopicCreativity):
		bucket = creativeAvatars
	case hasTopic(f.Topics, analysis.TopicTechnology):
		bucket = techAvatars
	case f.Formality > 0.7:
		bucket = professionalAvatars
	case f.Energy > 0.7:
		bucket = energeticAvatars
	case f.Energy < 0.3:
		bucket = calmAvatars
	default:
		bucket = friendlyAvatars
	}
	return rng.Pick(r, bucket)
}

// synthesizeTagline 按 {主话题}_{能量档} 查表，查不到时用默认标语
func synthesizeTagline(f models.FeatureVector) string {
	if len(f.Topics) == 0 {
		return defaultTagline
	}

	level := "low_energy"
	if f.Energy > 0.6 {
		level = "high_energy"
	}

	if tagline, ok := taglines[f.Topics[0]+"_"+level]; ok {
		return tagline
	}
	return defaultTagline
}

func hasTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
