package domain

import "fmt"

type Character struct {
	ID          string  `json:"id"`
	CharacterID string  `json:"characterId"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Personality string  `json:"personality"`
	AvatarURL   string  `json:"avatarUrl"`
	Voice       string  `json:"voice"`
	VoiceSpeed  float64 `json:"voiceSpeed"`
}

// Normalize keeps ID and CharacterID mutually defaulting (some payloads
// carry only one of them) and fills missing voice settings from the fixed
// per-character table.
func (c *Character) Normalize() {
	if c.ID == "" {
		c.ID = c.CharacterID
	}
	if c.CharacterID == "" {
		c.CharacterID = c.ID
	}
	if v, ok := voiceTable[c.CharacterID]; ok {
		if c.Voice == "" {
			c.Voice = v.Voice
		}
		if c.VoiceSpeed == 0 {
			c.VoiceSpeed = v.Speed
		}
	}
}

// ResolvedID returns whichever of the two id fields is set.
func (c *Character) ResolvedID() string {
	if c.CharacterID != "" {
		return c.CharacterID
	}
	return c.ID
}

// VoiceConfig builds the TTS parameters for this character, defaulting
// speed to 1.0 when unset.
func (c *Character) VoiceConfig() VoiceConfig {
	speed := c.VoiceSpeed
	if speed == 0 {
		speed = 1.0
	}
	return VoiceConfig{Voice: c.Voice, Speed: speed}
}

var voiceTable = map[string]VoiceConfig{
	"xiyang":  {Voice: "male", Speed: 1.0},
	"meiyang": {Voice: "female", Speed: 0.9},
	"lanyang": {Voice: "child", Speed: 1.1},
}

var greetings = map[string]string{
	"xiyang":  "爸爸妈妈好！我是你们的儿子喜羊羊，好久没回家了，真的很想念你们！最近工作虽然忙，但我身体很好，你们身体还好吗？有没有按时吃药？记得要多注意保暖哦！",
	"meiyang": "爸爸妈妈，我是美羊羊！好想你们呀！你们最近身体怎么样？有没有好好照顾自己？妈妈的腰还疼吗？爸爸记得按时吃降压药哦！我虽然不在身边，但心里时时刻刻都牵挂着你们！",
	"lanyang": "爷爷奶奶！我是小懒羊羊，好开心见到你们呀！你们身体还好吗？我超级超级想你们的！爷爷的胡子又长长了呢！奶奶今天也很漂亮哦！我在学校学了好多新东西，想讲给你们听！",
}

// GreetingFor returns the fixed greeting for a known character, or a
// generic templated greeting built from its display name.
func GreetingFor(c Character) string {
	if g, ok := greetings[c.ResolvedID()]; ok {
		return g
	}
	return fmt.Sprintf("你好呀！我是%s，很高兴见到你！今天想和我聊点什么呢？", c.Name)
}

// DefaultCharacters is the hardcoded roster used when the gateway is
// unreachable or returns no characters, so the UI stays usable offline.
func DefaultCharacters() []Character {
	return []Character{
		{
			ID:          "xiyang",
			CharacterID: "xiyang",
			Name:        "喜羊羊",
			Role:        "儿子",
			Personality: "聪明、勇敢、孝顺、责任心强，总是关心家人的安全和健康",
			AvatarURL:   "/images/character_xiyang.png",
			Voice:       "male",
			VoiceSpeed:  1.0,
		},
		{
			ID:          "meiyang",
			CharacterID: "meiyang",
			Name:        "美羊羊",
			Role:        "女儿",
			Personality: "温柔、细心、贴心、善解人意，是父母的贴心小棉袄",
			AvatarURL:   "/images/character_meiyang.png",
			Voice:       "female",
			VoiceSpeed:  0.9,
		},
		{
			ID:          "lanyang",
			CharacterID: "lanyang",
			Name:        "懒羊羊",
			Role:        "孙子",
			Personality: "天真烂漫、活泼可爱、爱撒娇、充满童趣，是爷爷奶奶的开心果",
			AvatarURL:   "/images/character_lanyang.png",
			Voice:       "child",
			VoiceSpeed:  1.1,
		},
	}
}
