// internal/analysis/lexicon.go
package analysis

// 词典为进程启动时初始化的只读常量表
// 各特征的词典相互独立，即使存在重叠词条也不做跨特征去重

// 情感词典
var (
	positiveWords = []string{
		"love", "great", "awesome", "amazing", "wonderful", "fantastic",
		"excellent", "happy", "joy", "excited", "best", "beautiful",
		"brilliant", "perfect", "good", "enjoy", "passion", "incredible",
		"delight", "superb", "inspiring", "success", "win", "fun", "smile",
	}
	negativeWords = []string{
		"hate", "terrible", "awful", "horrible", "bad", "worst", "sad",
		"angry", "disappointed", "fail", "failure", "annoying", "boring",
		"ugly", "pain", "problem", "wrong", "difficult", "fear", "stress",
	}
)

// 正式度词典
var (
	formalIndicators = []string{
		"furthermore", "however", "therefore", "moreover", "consequently",
		"nevertheless", "regarding", "accordingly", "thus", "hence",
		"additionally", "respectively", "subsequently", "notwithstanding",
	}
	informalIndicators = []string{
		"yeah", "gonna", "wanna", "gotta", "kinda", "sorta", "dunno",
		"stuff", "cool", "awesome", "lol", "omg", "btw", "hey", "yep", "nope",
	}
)

// 能量词典
var (
	highEnergyWords = []string{
		"excited", "amazing", "awesome", "love", "incredible", "fantastic",
		"energy", "thrilled", "pumped", "absolutely", "totally", "super",
		"wow", "epic", "unstoppable",
	}
	lowEnergyWords = []string{
		"calm", "quiet", "peaceful", "relaxed", "gentle", "slow", "tired",
		"rest", "serene", "mellow", "tranquil", "steady",
	}
)

// 话题常量，声明顺序即平分时的优先顺序
const (
	TopicTechnology    = "technology"
	TopicCreativity    = "creativity"
	TopicBusiness      = "business"
	TopicLifestyle     = "lifestyle"
	TopicEntertainment = "entertainment"
	TopicEducation     = "education"
)

type topicLexicon struct {
	Name     string
	Keywords []string // 子串匹配，非精确匹配
}

// 六个固定话题及其关键词
var topicLexicons = []topicLexicon{
	{TopicTechnology, []string{
		"tech", "code", "coding", "software", "computer", "program",
		"digital", "data", "internet", "develop", "engineer", "app", "system",
	}},
	{TopicCreativity, []string{
		"art", "design", "creat", "write", "writing", "music", "paint",
		"draw", "imagin", "story", "craft", "inspir", "photo",
	}},
	{TopicBusiness, []string{
		"business", "work", "market", "company", "startup", "money",
		"career", "strateg", "product", "client", "manag", "sell", "invest",
	}},
	{TopicLifestyle, []string{
		"life", "health", "food", "travel", "fitness", "family", "friend",
		"home", "cook", "nature", "morning", "habit", "yoga",
	}},
	{TopicEntertainment, []string{
		"movie", "game", "gaming", "show", "film", "series", "sport",
		"concert", "party", "stream", "anime", "play",
	}},
	{TopicEducation, []string{
		"learn", "study", "teach", "school", "book", "read", "knowledge",
		"course", "research", "student", "science", "history",
	}},
}

// emojiRange 表示一段Unicode表情符号码位区间
type emojiRange struct {
	lo, hi rune
}

// 检测用的emoji码位区间：杂项象形、表情、交通、辅助象形、杂项符号、装饰符号
var emojiRanges = []emojiRange{
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
}

func isEmoji(r rune) bool {
	for _, er := range emojiRanges {
		if r >= er.lo && r <= er.hi {
			return true
		}
	}
	return false
}

// containsWord 检查词是否在词典中（精确匹配）
func containsWord(lexicon []string, word string) bool {
	for _, w := range lexicon {
		if w == word {
			return true
		}
	}
	return false
}
