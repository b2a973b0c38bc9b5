package classifier

import "regexp"

// Category keyword sets for the person/character decision. The evidence
// source is the Japanese Wikipedia, so the keywords are Japanese. Kept as
// named package-level sets so the policy is unit-testable without touching
// the network.

// ExclusionKeywords rejects pages that are definitely not a person or
// character: buildings, organisms, places, organizations, abstract concepts.
// Checked before any inclusion signal so a landmark named after a person
// cannot slip through.
var ExclusionKeywords = []string{
	"建築物",
	"タワー",
	"塔",
	"寺",
	"神社",
	"城",
	"施設",
	"動物",
	"植物",
	"地形",
	"山",
	"川",
	"湖",
	"海",
	"島",
	"都市",
	"国",
	"企業",
	"組織",
	"団体",
	"学校",
	"大学",
	"概念",
	"用語",
}

// OccupationKeywords marks real people by profession category.
var OccupationKeywords = []string{
	"政治家",
	"学者",
	"研究者",
	"芸術家",
	"音楽家",
	"作家",
	"詩人",
	"スポーツ選手",
	"実業家",
	"起業家",
	"俳優",
	"女優",
	"歌手",
	"哲学者",
	"科学者",
	"発明家",
	"軍人",
	"宗教家",
}

// CharacterKeywords marks fictional and literary characters.
var CharacterKeywords = []string{
	"登場人物",
	"キャラクター",
	"架空の人物",
}

// MythKeywords marks mythological and legendary figures.
var MythKeywords = []string{
	"神話",
	"伝説",
}

// Lifecycle category patterns for real people.
var (
	birthYearPattern     = regexp.MustCompile(`Category:\d+年生`)
	deathYearPattern     = regexp.MustCompile(`Category:\d+年没`)
	centuryPersonPattern = regexp.MustCompile(`Category:\d+世紀の人物`)
	nationalityPattern   = regexp.MustCompile(`Category:.*の人物`)
)

const livingPersonCategory = "Category:存命人物"

// MinCorroboratingCategories is required when the nationality pattern is the
// only person signal: "Xの人物" alone matches too many non-person pages.
const MinCorroboratingCategories = 5
