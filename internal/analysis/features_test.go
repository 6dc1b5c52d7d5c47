// internal/analysis/features_test.go
package analysis

import (
	"reflect"
	"strings"
	"testing"
)

// 校验全部受约束的取值范围
func assertBounds(t *testing.T, text string) {
	t.Helper()
	f := Analyze(text)

	bounds := map[string]float64{
		"formality":          f.Formality,
		"energy":             f.Energy,
		"sentiment.strength": f.Sentiment.Strength,
		"richness":           f.Vocabulary.Richness,
		"question_ratio":     f.QuestionRatio,
		"exclamation_ratio":  f.ExclamationRatio,
	}
	for name, v := range bounds {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v 超出[0,1]范围，输入: %q", name, v, text)
		}
	}

	if len(f.Topics) > 3 {
		t.Errorf("topics长度超过3: %v", f.Topics)
	}
	seen := map[string]bool{}
	for _, topic := range f.Topics {
		if seen[topic] {
			t.Errorf("topics包含重复项: %v", f.Topics)
		}
		seen[topic] = true
	}
}

func TestAnalyzeBounds(t *testing.T) {
	inputs := []string{
		"I love coding and building innovative software solutions every day! Technology excites me so much!!",
		"The cat sat on the mat and then it left.",
		"WOW WOW WOW!!! AMAZING!!! INCREDIBLE!!! absolutely thrilled pumped excited!!!",
		"calm quiet peaceful relaxed gentle slow tired rest",
		"why? how? what? when? where? who? which?",
		"a",
		"",
		strings.Repeat("unique", 1) + " words all around here today maybe",
	}
	for _, text := range inputs {
		assertBounds(t, text)
	}
}

// 规格场景：科技正向高能文本
func TestAnalyzeTechEnthusiast(t *testing.T) {
	text := "I love coding and building innovative software solutions every day! Technology excites me so much!!"
	f := Analyze(text)

	hasTech := false
	for _, topic := range f.Topics {
		if topic == TopicTechnology {
			hasTech = true
		}
	}
	if !hasTech {
		t.Errorf("topics应包含technology，实际: %v", f.Topics)
	}

	if f.Sentiment.Polarity != PolarityPositive {
		t.Errorf("情感极性应为positive，实际: %s", f.Sentiment.Polarity)
	}

	if f.Energy <= 0.6 {
		t.Errorf("energy应大于0.6，实际: %v", f.Energy)
	}
}

// 规格场景：正式商务文本，无缩写且平均句长超过20词
func TestAnalyzeFormalBusinessText(t *testing.T) {
	text := "Furthermore, the quarterly projections indicate that our strategic initiatives will generate substantial returns across all market segments during the upcoming fiscal period. Moreover, the committee has determined that additional investment in our core product lines remains advisable given the prevailing competitive conditions within the industry."
	f := Analyze(text)

	if f.Formality <= 0.5 {
		t.Errorf("formality应大于0.5，实际: %v", f.Formality)
	}
	if f.AvgWordsPerSentence <= 20 {
		t.Errorf("测试前提不成立：平均句长应超过20词，实际: %v", f.AvgWordsPerSentence)
	}
}

// 规格场景：无任何词典命中的中性文本
func TestAnalyzeNeutralFiller(t *testing.T) {
	f := Analyze("The cat sat on the mat and then it left.")

	if f.Sentiment.Polarity != PolarityNeutral {
		t.Errorf("情感极性应为neutral，实际: %s", f.Sentiment.Polarity)
	}
	if f.Sentiment.Strength != 0.3 {
		t.Errorf("零命中时强度应恰为0.3，实际: %v", f.Sentiment.Strength)
	}
}

// 幂等性：相同输入两次分析结果完全一致
func TestAnalyzeIdempotent(t *testing.T) {
	text := "I love art and design! Do you enjoy creative writing? Music inspires me every single day... always has."
	first := Analyze(text)
	second := Analyze(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("两次分析结果不一致:\n第一次: %+v\n第二次: %+v", first, second)
	}
}

func TestExtractSentiment(t *testing.T) {
	tests := []struct {
		name         string
		tokens       []string
		wantPolarity string
	}{
		{"正向占优", []string{"love", "great", "bad"}, PolarityPositive},
		{"负向占优", []string{"hate", "terrible", "good"}, PolarityNegative},
		{"正负持平", []string{"love", "hate"}, PolarityNeutral},
		{"零命中", []string{"table", "chair"}, PolarityNeutral},
		{"空输入", []string{}, PolarityNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSentiment(tt.tokens)
			if got.Polarity != tt.wantPolarity {
				t.Errorf("极性 = %s, 期望 %s", got.Polarity, tt.wantPolarity)
			}
			if got.Strength < 0 || got.Strength > 1 {
				t.Errorf("强度超出范围: %v", got.Strength)
			}
		})
	}

	// 零命中时强度固定为0.3
	if got := ExtractSentiment([]string{"table"}); got.Strength != 0.3 {
		t.Errorf("零命中强度应为0.3，实际: %v", got.Strength)
	}
}

func TestExtractTopics(t *testing.T) {
	// 关键词为子串匹配："coding"命中technology，"creative"命中creativity
	f := Analyze("coding software computers, creative artwork, business marketing, healthy food, fun games, learning books")
	if len(f.Topics) != 3 {
		t.Fatalf("topics应截断为3个，实际: %v", f.Topics)
	}

	// 得分并列时按话题声明顺序
	f2 := Analyze("software art money")
	want := []string{TopicTechnology, TopicCreativity, TopicBusiness}
	if !reflect.DeepEqual(f2.Topics, want) {
		t.Errorf("平分话题顺序 = %v, 期望 %v", f2.Topics, want)
	}

	// 零得分话题不出现
	f3 := Analyze("the cat sat there quietly")
	for _, topic := range f3.Topics {
		if topic == TopicBusiness {
			t.Errorf("零得分话题不应出现: %v", f3.Topics)
		}
	}
}

func TestExtractVocabulary(t *testing.T) {
	// coding出现3次，building出现2次，其余不重复或长度不足
	f := Analyze("coding coding coding building building cat cat go go")

	if len(f.Vocabulary.FrequentWords) == 0 {
		t.Fatal("应存在高频词")
	}
	if f.Vocabulary.FrequentWords[0] != "coding" {
		t.Errorf("最高频词应为coding，实际: %v", f.Vocabulary.FrequentWords)
	}
	// cat和go长度不足4，不应入选
	for _, w := range f.Vocabulary.FrequentWords {
		if w == "cat" || w == "go" {
			t.Errorf("长度≤3的词不应入选: %v", f.Vocabulary.FrequentWords)
		}
	}
}

func TestExtractPunctuationStyle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"感叹强烈", "Wow! Great! Amazing! Yes!", StyleEnthusiastic},
		{"疑问为主", "Why? How? When? Really?", StyleInquisitive},
		{"省略号沉思", "Well... maybe... who knows", StyleContemplative},
		{"破折号表达", "so -- yes -- exactly", StyleExpressive},
		{"普通文本", "Just a normal sentence.", StyleStandard},
		// 感叹优先于疑问
		{"感叹优先", "Yes! Go! Now! Why? How? What? Huh?", StyleEnthusiastic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractPunctuation(tt.text)
			if got.Style != tt.want {
				t.Errorf("style = %s, 期望 %s", got.Style, tt.want)
			}
		})
	}
}

func TestExtractEmojiUsage(t *testing.T) {
	f := Analyze("I love this 🎮 so much 🎮🔥 wow ☀")

	if f.EmojiUsage.Count != 4 {
		t.Errorf("emoji总数应为4，实际: %d", f.EmojiUsage.Count)
	}
	if f.EmojiUsage.Unique != 3 {
		t.Errorf("去重emoji数应为3，实际: %d", f.EmojiUsage.Unique)
	}
	if len(f.EmojiUsage.Favorites) != 3 {
		t.Errorf("favorites应有3个，实际: %v", f.EmojiUsage.Favorites)
	}
	// 首现顺序
	if f.EmojiUsage.Favorites[0] != "🎮" {
		t.Errorf("favorites应按首现顺序，实际: %v", f.EmojiUsage.Favorites)
	}
}

func TestQuestionExclamationRatios(t *testing.T) {
	// 4句中2句问句1句感叹
	f := Analyze("How are you? What now? Great stuff! Just saying.")

	if f.QuestionRatio != 0.5 {
		t.Errorf("问句占比应为0.5，实际: %v", f.QuestionRatio)
	}
	if f.ExclamationRatio != 0.25 {
		t.Errorf("感叹句占比应为0.25，实际: %v", f.ExclamationRatio)
	}
}

func TestExtractEnergyUppercase(t *testing.T) {
	// 连续大写与感叹号都应抬升能量
	low := Analyze("this is a plain quiet sentence with nothing special at all")
	high := Analyze("THIS IS AMAZING STUFF!!! TOTALLY EPIC ENERGY!!!")

	if high.Energy <= low.Energy {
		t.Errorf("高能文本energy(%v)应大于平淡文本(%v)", high.Energy, low.Energy)
	}
}
