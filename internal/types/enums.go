package types

import "strings"

// normalizeName makes "Sp. Attack", "sp_attack" and "SP ATTACK" compare equal.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}

func lookupName(s string, names []string) (int, bool) {
	n := normalizeName(s)
	for i, name := range names {
		if name != "" && normalizeName(name) == n {
			return i, true
		}
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Nature
// -----------------------------------------------------------------------------

// Nature is an official nature. Values match the in-game index (PID % 25 in Gens 3-4).
type Nature int

// DefaultNature is used when nothing else decides the nature.
const DefaultNature Nature = 0 // Hardy

var natureNames = []string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// NatureCount is the number of official natures.
const NatureCount = 25

// ParseNature parses a nature name, ignoring case.
func ParseNature(s string) (Nature, bool) {
	i, ok := lookupName(s, natureNames)
	return Nature(i), ok
}

func (n Nature) String() string {
	if n < 0 || int(n) >= len(natureNames) {
		return "Unknown"
	}
	return natureNames[n]
}

// -----------------------------------------------------------------------------
// Gender
// -----------------------------------------------------------------------------

// Gender of a Pokémon or trainer. Trainers are never genderless.
type Gender int

const (
	Male Gender = iota
	Female
	Genderless
)

// DefaultGender is used for trainers and for Pokémon when nothing else decides.
const DefaultGender = Male

var genderNames = []string{"Male", "Female", "Genderless"}

// ParseGender parses "Male"/"Female"/"Genderless" and the short forms "M"/"F".
func ParseGender(s string) (Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return Male, true
	case "F":
		return Female, true
	}
	i, ok := lookupName(s, genderNames)
	return Gender(i), ok
}

func (g Gender) String() string {
	if g < 0 || int(g) >= len(genderNames) {
		return "Unknown"
	}
	return genderNames[g]
}

// GenderRatio is a species' gender ratio. Values are the gender threshold
// compared against the low byte of the PID.
type GenderRatio int

const (
	AllMale       GenderRatio = 0
	Male7Female1  GenderRatio = 31
	Male3Female1  GenderRatio = 63
	Male1Female1  GenderRatio = 127
	Male1Female3  GenderRatio = 191
	Male1Female7  GenderRatio = 225
	AllFemale     GenderRatio = 254
	AllGenderless GenderRatio = 255
)

var genderRatioNames = map[string]GenderRatio{
	"all_male":        AllMale,
	"male_7_female_1": Male7Female1,
	"male_3_female_1": Male3Female1,
	"male_1_female_1": Male1Female1,
	"male_1_female_3": Male1Female3,
	"male_1_female_7": Male1Female7,
	"all_female":      AllFemale,
	"all_genderless":  AllGenderless,
}

// ParseGenderRatio parses a reference-table gender ratio name such as "Male_1_Female_1".
func ParseGenderRatio(s string) (GenderRatio, bool) {
	gr, ok := genderRatioNames[normalizeName(s)]
	return gr, ok
}

// IsSingleGender reports whether every member of the species has the same gender.
func (gr GenderRatio) IsSingleGender() bool {
	return gr == AllMale || gr == AllFemale || gr == AllGenderless
}

// FixedGender returns the only possible gender of a single-gender ratio.
func (gr GenderRatio) FixedGender() (Gender, bool) {
	switch gr {
	case AllMale:
		return Male, true
	case AllFemale:
		return Female, true
	case AllGenderless:
		return Genderless, true
	}
	return Male, false
}

// -----------------------------------------------------------------------------
// Language
// -----------------------------------------------------------------------------

// Language is an official game language. Values match the in-game language id.
type Language int

const (
	Japanese           Language = 1
	English            Language = 2
	French             Language = 3
	Italian            Language = 4
	German             Language = 5
	Spanish            Language = 7
	Korean             Language = 8
	ChineseSimplified  Language = 9
	ChineseTraditional Language = 10
)

// DefaultLanguage is used when the record has no usable language.
const DefaultLanguage = English

var languageNames = map[Language]string{
	Japanese:           "Japanese",
	English:            "English",
	French:             "French",
	Italian:            "Italian",
	German:             "German",
	Spanish:            "Spanish",
	Korean:             "Korean",
	ChineseSimplified:  "Chinese Simplified",
	ChineseTraditional: "Chinese Traditional",
}

// ParseLanguage parses a language name, ignoring case.
func ParseLanguage(s string) (Language, bool) {
	n := normalizeName(s)
	for l, name := range languageNames {
		if normalizeName(name) == n {
			return l, true
		}
	}
	return 0, false
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "Unknown"
}

// EggNicknames maps a language to its translation of "Egg".
var EggNicknames = map[Language]string{
	Japanese:           "タマゴ",
	English:            "Egg",
	French:             "Œuf",
	Italian:            "Uovo",
	German:             "Ei",
	Spanish:            "Huevo",
	Korean:             "알",
	ChineseSimplified:  "蛋",
	ChineseTraditional: "蛋",
}

// -----------------------------------------------------------------------------
// Markings
// -----------------------------------------------------------------------------

// Marking is a symbol displayed on the summary screen.
type Marking int

const (
	BlueCircle Marking = iota
	BlueTriangle
	BlueSquare
	BlueHeart
	BlueStar
	BlueDiamond
	PinkCircle
	PinkTriangle
	PinkSquare
	PinkHeart
	PinkStar
	PinkDiamond
	Favorite
)

var markingNames = []string{
	"Blue_Circle", "Blue_Triangle", "Blue_Square", "Blue_Heart", "Blue_Star", "Blue_Diamond",
	"Pink_Circle", "Pink_Triangle", "Pink_Square", "Pink_Heart", "Pink_Star", "Pink_Diamond",
	"Favorite",
}

// ParseMarking parses a marking name such as "Blue Circle".
func ParseMarking(s string) (Marking, bool) {
	i, ok := lookupName(s, markingNames)
	return Marking(i), ok
}

func (m Marking) String() string {
	if m < 0 || int(m) >= len(markingNames) {
		return "Unknown"
	}
	return markingNames[m]
}

// -----------------------------------------------------------------------------
// Ribbons
// -----------------------------------------------------------------------------

// Ribbon is a ribbon or mark a Pokémon can hold.
type Ribbon int

const (
	CoolG3 Ribbon = iota
	CoolSuperG3
	CoolHyperG3
	CoolMasterG3
	BeautyG3
	BeautySuperG3
	BeautyHyperG3
	BeautyMasterG3
	CuteG3
	CuteSuperG3
	CuteHyperG3
	CuteMasterG3
	SmartG3
	SmartSuperG3
	SmartHyperG3
	SmartMasterG3
	ToughG3
	ToughSuperG3
	ToughHyperG3
	ToughMasterG3
	Winning
	Victory
	KalosChampion
	Champion
	SinnohChampion
	BestFriends
	Training
	Effort
	Artist
	Footprint
	Record
	Legend
	Country
	National
	Earth
	World
	Classic
	Premier
	Event
	Birthday
	Special
	Souvenir
	Wishing
	BattleChampion
	RegionalChampion
	NationalChampion
	WorldChampion
	HoennChampion
	AlolaChampion
	GalarChampion
	MasterRank
)

var ribbonNames = []string{
	"Cool_G3", "Cool_Super_G3", "Cool_Hyper_G3", "Cool_Master_G3",
	"Beauty_G3", "Beauty_Super_G3", "Beauty_Hyper_G3", "Beauty_Master_G3",
	"Cute_G3", "Cute_Super_G3", "Cute_Hyper_G3", "Cute_Master_G3",
	"Smart_G3", "Smart_Super_G3", "Smart_Hyper_G3", "Smart_Master_G3",
	"Tough_G3", "Tough_Super_G3", "Tough_Hyper_G3", "Tough_Master_G3",
	"Winning", "Victory",
	"Kalos_Champion", "Champion", "Sinnoh_Champion", "Best_Friends", "Training",
	"Effort", "Artist", "Footprint", "Record", "Legend",
	"Country", "National", "Earth", "World", "Classic", "Premier",
	"Event", "Birthday", "Special", "Souvenir", "Wishing",
	"Battle_Champion", "Regional_Champion", "National_Champion", "World_Champion",
	"Hoenn_Champion", "Alola_Champion", "Galar_Champion", "Master_Rank",
}

// ParseRibbon parses a ribbon name such as "Cool Super G3".
func ParseRibbon(s string) (Ribbon, bool) {
	i, ok := lookupName(s, ribbonNames)
	return Ribbon(i), ok
}

func (r Ribbon) String() string {
	if r < 0 || int(r) >= len(ribbonNames) {
		return "Unknown"
	}
	return ribbonNames[r]
}

// -----------------------------------------------------------------------------
// Growth rates
// -----------------------------------------------------------------------------

// GrowthRate is a species' experience curve.
type GrowthRate int

const (
	MediumFast GrowthRate = iota
	Erratic
	Fluctuating
	MediumSlow
	Fast
	Slow
)

var growthRateNames = []string{"Medium_Fast", "Erratic", "Fluctuating", "Medium_Slow", "Fast", "Slow"}

// ParseGrowthRate parses a reference-table growth rate name.
func ParseGrowthRate(s string) (GrowthRate, bool) {
	i, ok := lookupName(s, growthRateNames)
	return GrowthRate(i), ok
}

// MaxLevel is the highest level a Pokémon can reach.
const MaxLevel = 100

// ExpAtLevel returns the minimum experience for the given level (1-100).
func (gr GrowthRate) ExpAtLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	n := int64(level)
	cube := n * n * n
	switch gr {
	case Erratic:
		switch {
		case n <= 50:
			return cube * (100 - n) / 50
		case n <= 68:
			return cube * (150 - n) / 100
		case n <= 98:
			return cube * ((1911 - 10*n) / 3) / 500
		default:
			return cube * (160 - n) / 100
		}
	case Fluctuating:
		switch {
		case n <= 15:
			return cube * ((n+1)/3 + 24) / 50
		case n <= 36:
			return cube * (n + 14) / 50
		default:
			return cube * (n/2 + 32) / 50
		}
	case MediumSlow:
		return 6*cube/5 - 15*n*n + 100*n - 140
	case Fast:
		return 4 * cube / 5
	case Slow:
		return 5 * cube / 4
	default:
		return cube
	}
}

// LevelAtExp returns the level reached with the given experience.
func (gr GrowthRate) LevelAtExp(exp int64) int {
	level := 1
	for level < MaxLevel && gr.ExpAtLevel(level+1) <= exp {
		level++
	}
	return level
}
