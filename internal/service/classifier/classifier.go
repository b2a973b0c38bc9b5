package classifier

import (
	"strings"

	"github.com/kapu/copichat-persona-go/internal/domain"
)

// User-facing rejection reasons, from the original web app.
const (
	ReasonNotFound   = "Wikipedia記事が見つかりませんでした"
	ReasonExcluded   = "人物やキャラクターではないため追加できません"
	ReasonNotPerson  = "人物やキャラクターとして認識できませんでした"
	ReasonNotNotable = "情報が不足しているため、十分な知名度がある人物として認識できませんでした"
)

// Policy holds the notability thresholds. The strict defaults come from
// constants; the permissive historical variant (10-char floor, single
// category) is reachable through config.
type Policy struct {
	MinSummaryChars int
	MinCategories   int
}

// Classify is a pure function over an EvidenceRecord: no I/O, no state, the
// same record always yields the same result. Gates short-circuit in the
// order exclusion → inclusion → notability.
func Classify(evidence *domain.EvidenceRecord, policy Policy) domain.ClassificationResult {
	if evidence == nil || !evidence.Exists {
		return domain.ClassificationResult{
			Exists: false,
			Gate:   domain.GateNotFound,
			Reason: ReasonNotFound,
		}
	}

	if isExcluded(evidence.Categories) {
		return domain.ClassificationResult{
			Exists: true,
			Gate:   domain.GateExclusion,
			Reason: ReasonExcluded,
		}
	}

	if !isPersonOrCharacter(evidence.Categories) {
		return domain.ClassificationResult{
			Exists: true,
			Gate:   domain.GateInclusion,
			Reason: ReasonNotPerson,
		}
	}

	if !isNotable(evidence, policy) {
		return domain.ClassificationResult{
			Exists:              true,
			IsPersonOrCharacter: true,
			Gate:                domain.GateNotability,
			Reason:              ReasonNotNotable,
		}
	}

	return domain.ClassificationResult{
		Exists:              true,
		IsPersonOrCharacter: true,
		IsNotable:           true,
	}
}

func isExcluded(categories []string) bool {
	for _, cat := range categories {
		for _, keyword := range ExclusionKeywords {
			if strings.Contains(cat, keyword) {
				return true
			}
		}
	}
	return false
}

func isPersonOrCharacter(categories []string) bool {
	for _, cat := range categories {
		if birthYearPattern.MatchString(cat) ||
			deathYearPattern.MatchString(cat) ||
			centuryPersonPattern.MatchString(cat) ||
			strings.Contains(cat, livingPersonCategory) {
			return true
		}

		for _, keyword := range CharacterKeywords {
			if strings.Contains(cat, keyword) {
				return true
			}
		}

		for _, keyword := range MythKeywords {
			if strings.Contains(cat, keyword) {
				return true
			}
		}
		if strings.Contains(cat, "神") && strings.Contains(cat, "人物") {
			return true
		}

		for _, keyword := range OccupationKeywords {
			if strings.Contains(cat, keyword) {
				return true
			}
		}
	}

	// Nationality alone is a weak signal: require corroborating category mass.
	if len(categories) >= MinCorroboratingCategories {
		for _, cat := range categories {
			if nationalityPattern.MatchString(cat) && !strings.Contains(cat, "架空") {
				return true
			}
		}
	}

	return false
}

func isNotable(evidence *domain.EvidenceRecord, policy Policy) bool {
	summaryChars := len([]rune(evidence.Summary))
	return summaryChars >= policy.MinSummaryChars && len(evidence.Categories) >= policy.MinCategories
}
