// internal/chat/generator_test.go
package chat

import (
	"strings"
	"testing"

	"github.com/Corphon/PersonaForge/internal/analysis"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/persona"
	"github.com/Corphon/PersonaForge/internal/rng"
)

// neutralProfile 构造一个接近默认值的人格，便于针对单条规则做测试
func neutralProfile() *models.PersonaProfile {
	return &models.PersonaProfile{
		ID:     "test-persona",
		Name:   "TestMind",
		Traits: []string{persona.TraitBalanced, persona.TraitModerate},
		CommunicationStyle: models.CommunicationStyle{
			Formality: 0.5,
			Energy:    0.5,
			Sentiment: analysis.PolarityNeutral,
		},
	}
}

// zeroRand 使概率门全部不通过、随机选择固定取首项
type zeroRand struct{}

func (zeroRand) Intn(n int) int   { return 0 }
func (zeroRand) Float64() float64 { return 0.99 }

// eagerRand 使概率门全部通过、随机选择固定取首项
type eagerRand struct{}

func (eagerRand) Intn(n int) int   { return 0 }
func (eagerRand) Float64() float64 { return 0.0 }

func TestRespondQuestionCategories(t *testing.T) {
	p := neutralProfile()

	tests := []struct {
		name      string
		utterance string
		category  string
	}{
		{"what类", "What do you think about this?", "what"},
		{"how类", "How does this work?", "how"},
		{"why类", "Why would anyone do that?", "why"},
		{"无疑问词归general", "Pizza or pasta?", "general"},
		// 声明顺序优先：what先于how
		{"并存时取声明顺序靠前者", "What happens and how does it happen?", "what"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Respond(p, tt.utterance, zeroRand{})
			opener := questionOpeners[tt.category][0]
			if !strings.HasPrefix(reply, opener) {
				t.Errorf("回复应以%s类开场开头:\n回复: %q\n期望前缀: %q", tt.category, reply, opener)
			}
		})
	}
}

func TestRespondQuestionElaboration(t *testing.T) {
	// 有主话题时使用话题阐述库
	p := neutralProfile()
	p.CommunicationStyle.Topics = []string{analysis.TopicTechnology}
	reply := Respond(p, "What do you think?", zeroRand{})
	if !strings.Contains(reply, topicElaborations[analysis.TopicTechnology][0]) {
		t.Errorf("应使用科技话题阐述: %q", reply)
	}

	// 无话题但有高频词时使用高频词模板
	p2 := neutralProfile()
	p2.FavoriteWords = []string{"coffee"}
	reply2 := Respond(p2, "What do you think?", zeroRand{})
	if !strings.Contains(reply2, "coffee is really important") {
		t.Errorf("应使用高频词阐述: %q", reply2)
	}

	// 都没有时使用通用兜底句
	p3 := neutralProfile()
	reply3 := Respond(p3, "What do you think?", zeroRand{})
	if !strings.Contains(reply3, genericElaboration) {
		t.Errorf("应使用通用兜底阐述: %q", reply3)
	}
}

func TestRespondReactiveSentimentBuckets(t *testing.T) {
	p := neutralProfile()

	tests := []struct {
		name      string
		utterance string
		polarity  string
	}{
		{"正向消息", "I love this amazing wonderful day", analysis.PolarityPositive},
		{"负向消息", "everything is terrible and awful today", analysis.PolarityNegative},
		{"中性消息", "the cat sat on the mat", analysis.PolarityNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Respond(p, tt.utterance, zeroRand{})
			reaction := reactionTemplates[tt.polarity][0]
			if !strings.HasPrefix(reply, reaction) {
				t.Errorf("回复应以%s反应开头:\n回复: %q\n期望前缀: %q", tt.polarity, reply, reaction)
			}
		})
	}
}

// 规格场景：Curious人格对非疑问消息必须使用澄清式跟进，绝不使用通用沉思句
func TestRespondCuriousFollowUp(t *testing.T) {
	p := neutralProfile()
	p.Traits = append(p.Traits, persona.TraitCurious)

	for seed := int64(0); seed < 20; seed++ {
		reply := Respond(p, "I went hiking last weekend", rng.NewSeeded(seed))

		fromClarifying := false
		for _, q := range clarifyingQuestions {
			if strings.Contains(reply, q) {
				fromClarifying = true
			}
		}
		if !fromClarifying {
			t.Fatalf("Curious人格的跟进句应来自澄清问题集: %q", reply)
		}

		for _, line := range reflectiveLines {
			if strings.Contains(reply, line) {
				t.Fatalf("Curious人格不应使用通用沉思句: %q", reply)
			}
		}
	}
}

func TestRespondExpressiveFollowUp(t *testing.T) {
	p := neutralProfile()
	p.Traits = []string{persona.TraitExpressive}

	reply := Respond(p, "I went hiking last weekend", zeroRand{})
	if !strings.Contains(reply, enthusiasmLines[0]) {
		t.Errorf("Expressive人格应使用热情跟进句: %q", reply)
	}
}

func TestStylizeFormalExpansion(t *testing.T) {
	p := neutralProfile()
	p.CommunicationStyle.Formality = 0.9

	got := stylize(p, "That's fine, I'm sure you're right and we can't stop", zeroRand{})
	want := "that is fine, I am sure you are right and we cannot stop"
	if got != want {
		t.Errorf("正式化改写 = %q, 期望 %q", got, want)
	}
}

func TestStylizeCasualContraction(t *testing.T) {
	p := neutralProfile()
	p.CommunicationStyle.Formality = 0.1

	got := stylize(p, "I am sure that is good, you are right, we cannot lose", zeroRand{})
	want := "I'm sure that's good, you're right, we can't lose"
	if got != want {
		t.Errorf("随意化改写 = %q, 期望 %q", got, want)
	}
}

func TestStylizeHighEnergyExclamation(t *testing.T) {
	p := neutralProfile()
	p.CommunicationStyle.Energy = 0.9

	got := stylize(p, "sounds good", zeroRand{})
	if !strings.Contains(got, "!") {
		t.Errorf("高能人格的无感叹号回复应补一个感叹号: %q", got)
	}

	// 已有感叹号时不再追加
	got2 := stylize(p, "sounds good!", zeroRand{})
	if strings.Count(got2, "!") != 1 {
		t.Errorf("已有感叹号时不应追加: %q", got2)
	}
}

func TestStylizeProbabilisticDecorations(t *testing.T) {
	p := neutralProfile()
	p.SignaturePhrases = []string{"Ship it!"}
	p.EmojiStyle = "🚀 ⚡"

	// 概率门全部通过：追加签名短语与emoji
	got := stylize(p, "sounds good", eagerRand{})
	if !strings.Contains(got, "Ship it!") {
		t.Errorf("概率门通过时应追加签名短语: %q", got)
	}
	if !strings.Contains(got, "🚀") {
		t.Errorf("概率门通过时应追加emoji: %q", got)
	}

	// 概率门全部不通过：回复保持原样
	got2 := stylize(p, "sounds good", zeroRand{})
	if got2 != "sounds good" {
		t.Errorf("概率门不通过时回复应保持原样: %q", got2)
	}
}

// 固定随机源下回复完全可复现
func TestRespondDeterministicUnderFixedSeed(t *testing.T) {
	text := "I love coding software! Technology is amazing and I learn new things every day!"
	f := analysis.Analyze(text)
	p := persona.Synthesize(f, text, rng.NewSeeded(5))

	utterances := []string{
		"What do you think about open source?",
		"I had a rough day at work",
		"Tell me something interesting",
	}
	for _, u := range utterances {
		a := Respond(p, u, rng.NewSeeded(11))
		b := Respond(p, u, rng.NewSeeded(11))
		if a != b {
			t.Errorf("固定种子下回复应一致:\n%q\n%q", a, b)
		}
	}
}

// 合法字符串输入永不panic，包括空串与纯标点
func TestRespondNeverPanics(t *testing.T) {
	p := neutralProfile()
	inputs := []string{"", "?", "!!!", "...", "a", strings.Repeat("x ", 500)}
	for _, u := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Respond(%q) panic: %v", u, r)
				}
			}()
			_ = Respond(p, u, rng.NewSeeded(1))
		}()
	}
}
