// internal/persona/synthesizer_test.go
package persona

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/Corphon/PersonaForge/internal/analysis"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/rng"
)

func featuresFor(text string) models.FeatureVector {
	return analysis.Analyze(text)
}

func TestSynthesizeCardinality(t *testing.T) {
	texts := []string{
		"I love coding and building innovative software solutions every day! Technology excites me so much!!",
		"Art and music and creative writing fill my days... I paint, I draw, I imagine new stories.",
		"Furthermore, the strategic market analysis indicates considerable business growth. However, prudent management remains essential.",
		"The cat sat on the mat and then it left.",
	}

	for _, text := range texts {
		f := featuresFor(text)
		p := Synthesize(f, text, rng.NewSeeded(1))

		if len(p.Traits) > 5 {
			t.Errorf("traits超过5个: %v", p.Traits)
		}
		if len(p.SignaturePhrases) > 4 {
			t.Errorf("签名短语超过4个: %v", p.SignaturePhrases)
		}
		if len(p.FavoriteWords) > 6 {
			t.Errorf("高频词超过6个: %v", p.FavoriteWords)
		}
		if emojis := strings.Fields(p.EmojiStyle); len(emojis) > 6 {
			t.Errorf("emoji风格超过6个: %v", emojis)
		}
		if p.ID == "" {
			t.Error("人格ID不能为空")
		}
		if p.Name == "" || p.Avatar == "" || p.Tagline == "" {
			t.Errorf("名字/头像/标语不能为空: %+v", p)
		}
	}
}

func TestSynthesizeUniqueIDs(t *testing.T) {
	f := featuresFor("The cat sat on the mat and then it left.")
	a := Synthesize(f, "", rng.NewSeeded(1))
	b := Synthesize(f, "", rng.NewSeeded(1))
	if a.ID == b.ID {
		t.Error("每次生成的人格ID应唯一")
	}
}

// 固定随机源下结果完全可复现
func TestSynthesizeDeterministicUnderFixedSeed(t *testing.T) {
	text := "I love coding software! Technology is amazing and I learn something new every day!"
	f := featuresFor(text)

	a := Synthesize(f, text, rng.NewSeeded(42))
	b := Synthesize(f, text, rng.NewSeeded(42))

	if a.Name != b.Name {
		t.Errorf("固定种子下名字应一致: %q vs %q", a.Name, b.Name)
	}
	if a.Avatar != b.Avatar {
		t.Errorf("固定种子下头像应一致: %q vs %q", a.Avatar, b.Avatar)
	}
	if !reflect.DeepEqual(a.SignaturePhrases, b.SignaturePhrases) {
		t.Errorf("固定种子下签名短语应一致: %v vs %v", a.SignaturePhrases, b.SignaturePhrases)
	}
}

// 变更随机种子只影响随机选择，不影响评分派生字段
func TestSynthesizeSeedOnlyAffectsRandomChoices(t *testing.T) {
	text := "I love coding software! Technology is amazing and I learn something new every day!"
	f := featuresFor(text)

	a := Synthesize(f, text, rng.NewSeeded(1))
	b := Synthesize(f, text, rng.NewSeeded(99))

	if !reflect.DeepEqual(a.Traits, b.Traits) {
		t.Errorf("traits不应受随机源影响: %v vs %v", a.Traits, b.Traits)
	}
	if a.Tagline != b.Tagline {
		t.Errorf("标语不应受随机源影响: %q vs %q", a.Tagline, b.Tagline)
	}
	if a.EmojiStyle != b.EmojiStyle {
		t.Errorf("emoji风格不应受随机源影响: %q vs %q", a.EmojiStyle, b.EmojiStyle)
	}
	if !reflect.DeepEqual(a.AnalysisData, b.AnalysisData) {
		t.Error("分析数据不应受随机源影响")
	}
}

func TestSynthesizeTraitRules(t *testing.T) {
	tests := []struct {
		name      string
		features  models.FeatureVector
		wantTrait string
	}{
		{
			name:      "高正式度",
			features:  models.FeatureVector{Formality: 0.8, Energy: 0.5},
			wantTrait: TraitProfessional,
		},
		{
			name:      "低正式度",
			features:  models.FeatureVector{Formality: 0.1, Energy: 0.5},
			wantTrait: TraitCasual,
		},
		{
			name:      "高能量",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.9},
			wantTrait: TraitEnergetic,
		},
		{
			name:      "强正向情感",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, Sentiment: models.Sentiment{Polarity: analysis.PolarityPositive, Strength: 0.8}},
			wantTrait: TraitOptimistic,
		},
		{
			name:      "强非正向情感",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, Sentiment: models.Sentiment{Polarity: analysis.PolarityNegative, Strength: 0.8}},
			wantTrait: TraitThoughtful,
		},
		{
			name:      "问句偏好",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, QuestionRatio: 0.5},
			wantTrait: TraitCurious,
		},
		{
			name:      "感叹偏好",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, ExclamationRatio: 0.5},
			wantTrait: TraitExpressive,
		},
		{
			name:      "科技话题",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, Topics: []string{analysis.TopicTechnology}},
			wantTrait: TraitTechSavvy,
		},
		{
			name:      "词汇丰富",
			features:  models.FeatureVector{Formality: 0.5, Energy: 0.5, Vocabulary: models.Vocabulary{Richness: 0.9}},
			wantTrait: TraitArticulate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traits := synthesizeTraits(tt.features)
			found := false
			for _, tr := range traits {
				if tr == tt.wantTrait {
					found = true
				}
			}
			if !found {
				t.Errorf("traits应包含%s，实际: %v", tt.wantTrait, traits)
			}
		})
	}
}

func TestSynthesizeTraitsTruncation(t *testing.T) {
	// 全部规则命中时按评估顺序截断为前5
	f := models.FeatureVector{
		Formality:        0.9,
		Energy:           0.9,
		Sentiment:        models.Sentiment{Polarity: analysis.PolarityPositive, Strength: 0.9},
		QuestionRatio:    0.5,
		ExclamationRatio: 0.5,
		Topics:           []string{analysis.TopicCreativity, analysis.TopicTechnology, analysis.TopicBusiness},
		Vocabulary:       models.Vocabulary{Richness: 0.9},
	}
	traits := synthesizeTraits(f)

	want := []string{TraitProfessional, TraitEnergetic, TraitOptimistic, TraitCurious, TraitExpressive}
	if !reflect.DeepEqual(traits, want) {
		t.Errorf("traits = %v, 期望 %v", traits, want)
	}
}

func TestSynthesizeNameBuckets(t *testing.T) {
	r := rng.NewSeeded(7)

	// 高能量优先于其它规则
	highEnergy := synthesizeName(models.FeatureVector{Energy: 0.9, Topics: []string{analysis.TopicTechnology}}, r)
	if !hasPrefix(highEnergy, highEnergyPrefixes) {
		t.Errorf("高能量前缀桶未命中: %q", highEnergy)
	}
	if !hasSuffix(highEnergy, topicNameSuffixes[analysis.TopicTechnology]) {
		t.Errorf("科技话题后缀未命中: %q", highEnergy)
	}

	// 无话题时使用默认后缀
	noTopic := synthesizeName(models.FeatureVector{Energy: 0.5}, r)
	if !strings.HasSuffix(noTopic, defaultNameSuffix) {
		t.Errorf("无话题应使用默认后缀Mind: %q", noTopic)
	}

	// 低能量桶
	lowEnergy := synthesizeName(models.FeatureVector{Energy: 0.1}, r)
	if !hasPrefix(lowEnergy, lowEnergyPrefixes) {
		t.Errorf("低能量前缀桶未命中: %q", lowEnergy)
	}
}

func TestSynthesizeTagline(t *testing.T) {
	tests := []struct {
		name     string
		features models.FeatureVector
		want     string
	}{
		{
			name:     "科技高能",
			features: models.FeatureVector{Energy: 0.8, Topics: []string{analysis.TopicTechnology}},
			want:     taglines["technology_high_energy"],
		},
		{
			name:     "科技低能",
			features: models.FeatureVector{Energy: 0.4, Topics: []string{analysis.TopicTechnology}},
			want:     taglines["technology_low_energy"],
		},
		{
			name:     "无话题用默认",
			features: models.FeatureVector{Energy: 0.8},
			want:     defaultTagline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := synthesizeTagline(tt.features); got != tt.want {
				t.Errorf("标语 = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestSynthesizeEmojiStyleIncludesUserFavorites(t *testing.T) {
	f := models.FeatureVector{
		Energy:     0.5,
		Sentiment:  models.Sentiment{Polarity: analysis.PolarityNeutral},
		EmojiUsage: models.EmojiUsage{Favorites: []string{"🦄"}},
	}
	style := synthesizeEmojiStyle(f)
	if !strings.Contains(style, "🦄") {
		t.Errorf("emoji风格应包含用户自身偏好: %q", style)
	}
}

func TestExtractShortSentence(t *testing.T) {
	// 少于8词且超过10字符的第一句被原样提取
	text := "This is a rather long opening sentence that should not qualify at all here. Keep it simple always. ok."
	got := extractShortSentence(text)
	if got != "Keep it simple always" {
		t.Errorf("提取短句 = %q, 期望 %q", got, "Keep it simple always")
	}

	if got := extractShortSentence("short. tiny."); got != "" {
		t.Errorf("无合格短句时应返回空串，实际: %q", got)
	}
}

// 人格档案JSON序列化往返后字段保持一致
func TestPersonaProfileJSONRoundTrip(t *testing.T) {
	text := "I love coding software! Technology is amazing and I learn something new every day!"
	p := Synthesize(featuresFor(text), text, rng.NewSeeded(3))

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var restored models.PersonaProfile
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}

	again, err := json.Marshal(&restored)
	if err != nil {
		t.Fatalf("二次序列化失败: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("JSON往返不一致:\n%s\n%s", data, again)
	}

	if restored.ID != p.ID || restored.Name != p.Name || restored.EmojiStyle != p.EmojiStyle {
		t.Error("往返后字段值发生变化")
	}
	if !reflect.DeepEqual(restored.Traits, p.Traits) {
		t.Errorf("往返后traits不一致: %v vs %v", restored.Traits, p.Traits)
	}
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
