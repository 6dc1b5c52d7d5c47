// internal/persona/templates.go
package persona

import "github.com/Corphon/PersonaForge/internal/analysis"

// 模板表为进程启动时初始化的只读常量
// 每个模板桶保证非空，随机选择永远不会落在空列表上

// 名字前缀桶
var (
	highEnergyPrefixes   = []string{"Turbo", "Blaze", "Spark", "Dash", "Volt", "Zippy"}
	lowEnergyPrefixes    = []string{"Zen", "Mellow", "Drift", "Willow", "Haven", "Misty"}
	creativePrefixes     = []string{"Pixel", "Doodle", "Muse", "Prism", "Fable", "Indigo"}
	professionalPrefixes = []string{"Sterling", "Atlas", "Vance", "Monroe", "Sage", "Huxley"}
	friendlyPrefixes     = []string{"Sunny", "Buddy", "Coco", "Pepper", "Lucky", "Honey"}
)

// 名字后缀按主话题选取，无对应表时使用默认后缀
const defaultNameSuffix = "Mind"

var topicNameSuffixes = map[string][]string{
	analysis.TopicTechnology:    {"Byte", "Bot", "Circuit", "Codec"},
	analysis.TopicCreativity:    {"Brush", "Quill", "Canvas", "Spark"},
	analysis.TopicBusiness:      {"Venture", "Ledger", "Mogul", "Pitch"},
	analysis.TopicLifestyle:     {"Bloom", "Vibe", "Breeze", "Glow"},
	analysis.TopicEntertainment: {"Star", "Reel", "Beat", "Arcade"},
	analysis.TopicEducation:     {"Scholar", "Sage", "Quest", "Tutor"},
}

// 签名短语模板
var (
	highEnergyPhrases = []string{
		"Let's gooo!",
		"This is going to be epic!",
		"I'm so pumped about this!",
	}
	lowEnergyPhrases = []string{
		"Take it slow and steady.",
		"No rush, we'll get there.",
		"Breathe first, then decide.",
	}
	formalPhrases = []string{
		"Allow me to elaborate.",
		"With all due respect.",
		"As previously discussed.",
	}
	casualPhrases = []string{
		"No biggie, honestly.",
		"You know what I mean?",
		"Just saying!",
	}
	positivePhrases = []string{
		"Every day is a fresh start!",
		"Good vibes only.",
		"Something great is coming.",
	}
	creativityPhrases = []string{
		"Imagination is the real superpower.",
		"Let's make something beautiful.",
		"Art first, rules later.",
	}
	technologyPhrases = []string{
		"Have you tried turning it off and on again?",
		"Ship it!",
		"There's probably an API for that.",
	}
)

// emoji风格集合
var (
	highEnergyEmojis = []string{"⚡", "🔥", "🚀"}
	lowEnergyEmojis  = []string{"🌙", "🍃", "😌"}
	midEnergyEmojis  = []string{"🙂", "👍"}

	topicEmojis = map[string][]string{
		analysis.TopicTechnology:    {"💻", "🤖", "⚙"},
		analysis.TopicCreativity:    {"🎨", "✏", "🌈"},
		analysis.TopicBusiness:      {"💼", "📈", "💡"},
		analysis.TopicLifestyle:     {"🌿", "🏡", "☕"},
		analysis.TopicEntertainment: {"🎬", "🎮", "🎵"},
		analysis.TopicEducation:     {"📚", "🎓", "🔍"},
	}

	positiveEmojis = []string{"😄", "✨"}
	negativeEmojis = []string{"😔", "💭"}
	neutralEmojis  = []string{"🙂", "💬"}
)

// 头像桶
var (
	creativeAvatars     = []string{"🎨", "🖌", "🌈", "✨"}
	techAvatars         = []string{"🤖", "💻", "🛰", "⚙"}
	professionalAvatars = []string{"📊", "🏛", "💼", "🖋"}
	energeticAvatars    = []string{"🔥", "⚡", "🚀", "🌟"}
	calmAvatars         = []string{"🌙", "🍵", "🌊", "🌸"}
	friendlyAvatars     = []string{"😊", "🐥", "🌻", "🍀"}
)

// 标语表，键为 {主话题}_{high_energy|low_energy}
const defaultTagline = "Just here to chat and vibe."

var taglines = map[string]string{
	"technology_high_energy":    "Shipping ideas at the speed of thought ⚡",
	"technology_low_energy":     "Quietly debugging the universe.",
	"creativity_high_energy":    "Painting outside every line!",
	"creativity_low_energy":     "Dreaming in watercolor.",
	"business_high_energy":      "Always closing, always climbing!",
	"business_low_energy":       "Strategy over hustle.",
	"lifestyle_high_energy":     "Living loud and loving it!",
	"lifestyle_low_energy":      "Slow mornings, soft music.",
	"entertainment_high_energy": "Every day deserves a highlight reel!",
	"entertainment_low_energy":  "Comfort shows and cozy nights.",
	"education_high_energy":     "Curiosity cranked to eleven!",
	"education_low_energy":      "One page at a time.",
}
