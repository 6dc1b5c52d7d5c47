// internal/models/persona.go
package models

import "time"

// Sentiment 表示文本的情感倾向
type Sentiment struct {
	Polarity string  `json:"polarity"` // positive, negative, neutral
	Strength float64 `json:"strength"` // 0.0-1.0
}

// Vocabulary 表示词汇分析结果
type Vocabulary struct {
	Richness      float64  `json:"richness"`       // 去重词数 / 总词数
	FrequentWords []string `json:"frequent_words"` // 高频词，最多8个
}

// Punctuation 表示标点使用风格
type Punctuation struct {
	Density float64 `json:"density"`
	Style   string  `json:"style"` // enthusiastic, inquisitive, contemplative, expressive, standard
}

// EmojiUsage 表示表情符号使用情况
type EmojiUsage struct {
	Count     int      `json:"count"`
	Unique    int      `json:"unique"`
	Favorites []string `json:"favorites"` // 最多5个
	Density   float64  `json:"density"`
}

// FeatureVector 表示一段文本的全部启发式分析结果
// 计算完成后不可变，analyze 对相同输入必须产出相同结果
type FeatureVector struct {
	WordCount           int         `json:"word_count"`
	SentenceCount       int         `json:"sentence_count"`
	AvgWordsPerSentence float64     `json:"avg_words_per_sentence"`
	Sentiment           Sentiment   `json:"sentiment"`
	Formality           float64     `json:"formality"` // 0.0-1.0，0.5为中性默认
	Energy              float64     `json:"energy"`    // 0.0-1.0
	Topics              []string    `json:"topics"`    // 最多3个，按相关度降序
	Vocabulary          Vocabulary  `json:"vocabulary"`
	Punctuation         Punctuation `json:"punctuation"`
	EmojiUsage          EmojiUsage  `json:"emoji_usage"`
	QuestionRatio       float64     `json:"question_ratio"`
	ExclamationRatio    float64     `json:"exclamation_ratio"`
}

// CommunicationStyle 表示人格的交流风格摘要
type CommunicationStyle struct {
	Formality float64  `json:"formality"`
	Energy    float64  `json:"energy"`
	Sentiment string   `json:"sentiment"`
	Topics    []string `json:"topics"`
}

// PersonaProfile 表示由文本分析合成的人格档案
type PersonaProfile struct {
	ID                 string             `json:"id"`
	OwnerID            string             `json:"owner_id,omitempty"`
	Name               string             `json:"name"`
	Avatar             string             `json:"avatar"` // 单个emoji
	Tagline            string             `json:"tagline"`
	Traits             []string           `json:"traits"`            // 最多5个，有序
	SignaturePhrases   []string           `json:"signature_phrases"` // 最多4个
	FavoriteWords      []string           `json:"favorite_words"`    // 最多6个
	EmojiStyle         string             `json:"emoji_style"`       // 空格连接，最多6个
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	AnalysisData       FeatureVector      `json:"analysis_data"`
	CreatedAt          time.Time          `json:"created_at"`
	LastUpdated        time.Time          `json:"last_updated"`
}

// HasTrait 检查人格是否包含指定特质
func (p *PersonaProfile) HasTrait(trait string) bool {
	for _, t := range p.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// HasTopic 检查人格的话题列表是否包含指定话题
func (p *PersonaProfile) HasTopic(topic string) bool {
	for _, t := range p.CommunicationStyle.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// PrimaryTopic 返回人格的主话题，没有话题时返回空字符串
func (p *PersonaProfile) PrimaryTopic() string {
	if len(p.CommunicationStyle.Topics) == 0 {
		return ""
	}
	return p.CommunicationStyle.Topics[0]
}
