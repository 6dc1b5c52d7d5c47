// internal/chat/templates.go
package chat

import "github.com/Corphon/PersonaForge/internal/analysis"

// 回复模板为进程启动时初始化的只读常量
// 每个桶保证非空，并为无匹配情况准备了general与通用兜底句

// 疑问词类别的声明顺序，首个命中生效
var questionCategories = []string{"what", "how", "why", "when", "where", "who", "which"}

// 各疑问词类别的开场模板
var questionOpeners = map[string][]string{
	"what": {
		"Oh, that's an interesting what-question!",
		"Good question! Let me think about what that means.",
		"What indeed! Here's my take.",
	},
	"how": {
		"Great question about the how of it!",
		"Let me walk you through how I see it.",
		"How? Well, here's my angle.",
	},
	"why": {
		"The why is always the best part!",
		"Why? I've actually thought about this.",
		"That's a deep why-question.",
	},
	"when": {
		"Timing questions, I like those.",
		"When? Let me think back.",
		"Good timing question!",
	},
	"where": {
		"Location, location, location!",
		"Where? That's a fun one to consider.",
		"Let me place that for you.",
	},
	"who": {
		"Ah, a people question!",
		"Who indeed! Let me think.",
		"People questions are my favorite.",
	},
	"which": {
		"Decisions, decisions!",
		"Which one? Tough call.",
		"Let me weigh the options.",
	},
	"general": {
		"That's a really good question!",
		"Hmm, let me think about that.",
		"Interesting question, honestly.",
	},
}

// 各话题的阐述句库，问句回复在开场后追加一句
var topicElaborations = map[string][]string{
	analysis.TopicTechnology: {
		"From a tech perspective, it all comes down to how the pieces connect.",
		"I always think about problems like debugging: isolate, test, repeat.",
		"Technology moves fast, but the fundamentals stay the same.",
	},
	analysis.TopicCreativity: {
		"Creatively speaking, the best answers come from unexpected angles.",
		"I like to approach this the way an artist would: sketch first, refine later.",
		"Every idea starts rough, and that's the beautiful part.",
	},
	analysis.TopicBusiness: {
		"Strategically, it's about knowing which trade-off you're making.",
		"In business terms, value always finds its way to the surface.",
		"I'd look at the incentives first, the rest follows.",
	},
	analysis.TopicLifestyle: {
		"For me it always comes back to balance and what feels sustainable.",
		"Little daily habits shape the big picture more than we admit.",
		"I try to keep things simple and intentional.",
	},
	analysis.TopicEntertainment: {
		"It's like a good story: the setup matters as much as the payoff.",
		"I'd rate it the way I rate a great show: did it keep me hooked?",
		"Everything's better with a bit of drama and a good soundtrack.",
	},
	analysis.TopicEducation: {
		"The more I learn about this, the more interesting it gets.",
		"I'd start by reading everything I can find on the subject.",
		"Every question like this is a chance to learn something new.",
	},
}

// 无话题库时的兜底阐述
const (
	favoriteWordElaboration = "I think %s is really important in this context."
	genericElaboration      = "There's honestly a lot to unpack there, and I love that."
)

// 反应式回复按情感极性分桶
var reactionTemplates = map[string][]string{
	analysis.PolarityPositive: {
		"That sounds wonderful!",
		"I love hearing that!",
		"That's genuinely great news.",
	},
	analysis.PolarityNegative: {
		"Oh no, that sounds rough.",
		"I'm sorry to hear that.",
		"That can't have been easy.",
	},
	analysis.PolarityNeutral: {
		"I hear you.",
		"That makes sense.",
		"Interesting, tell me more.",
	},
}

// 跟进句模板
var (
	clarifyingQuestions = []string{
		"What made you think of that?",
		"How did that come about?",
		"What's the part that matters most to you?",
	}
	enthusiasmLines = []string{
		"I'm genuinely excited about where this is going!",
		"This conversation is giving me so much energy!",
		"Yes! Keep going, I'm all in!",
	}
	reflectiveLines = []string{
		"I've been turning that over in my mind.",
		"It's worth sitting with that for a moment.",
		"There's something quietly true about that.",
	}
)
