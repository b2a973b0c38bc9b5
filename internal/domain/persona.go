package domain

import "strings"

// PersonaCategory is the closed set of activity domains a persona can belong to.
type PersonaCategory string

const (
	CategoryBusiness   PersonaCategory = "business"
	CategoryPhilosophy PersonaCategory = "philosophy"
	CategoryScience    PersonaCategory = "science"
	CategoryArt        PersonaCategory = "art"
	CategoryMusic      PersonaCategory = "music"
	CategorySports     PersonaCategory = "sports"
	CategorySocial     PersonaCategory = "social"
	CategoryOther      PersonaCategory = "other"
)

var validCategories = map[PersonaCategory]struct{}{
	CategoryBusiness:   {},
	CategoryPhilosophy: {},
	CategoryScience:    {},
	CategoryArt:        {},
	CategoryMusic:      {},
	CategorySports:     {},
	CategorySocial:     {},
	CategoryOther:      {},
}

func (c PersonaCategory) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// PersonaTraits aggregates the behavioral characteristics fed into the chat
// system prompt.
type PersonaTraits struct {
	SpeechPattern  []string `json:"speechPattern"`
	Philosophy     []string `json:"philosophy"`
	DecisionMaking string   `json:"decisionMaking"`
	KeyPhrases     []string `json:"keyPhrases"`
	FamousQuotes   []string `json:"famousQuotes"`
}

// Persona is the synthesized record describing a character for downstream
// conversational use. All non-optional fields must be non-empty after
// synthesis; Validate enforces that.
type Persona struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	NameEn             string          `json:"nameEn"`
	Era                string          `json:"era"`
	Title              string          `json:"title"`
	Avatar             string          `json:"avatar"`
	SystemPrompt       string          `json:"systemPrompt"`
	BackgroundGradient []string        `json:"backgroundGradient"`
	TextColor          string          `json:"textColor"`
	Traits             PersonaTraits   `json:"traits"`
	Specialties        []string        `json:"specialties"`
	HistoricalContext  string          `json:"historicalContext"`
	Category           PersonaCategory `json:"category"`
}

// Validate reports every required field that is empty or out of range.
// Avatar is the only optional field: pages without a usable portrait
// legitimately produce an empty string.
func (p *Persona) Validate() []string {
	var missing []string

	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	check("id", p.ID)
	check("name", p.Name)
	check("nameEn", p.NameEn)
	check("era", p.Era)
	check("title", p.Title)
	check("systemPrompt", p.SystemPrompt)
	check("textColor", p.TextColor)
	check("historicalContext", p.HistoricalContext)
	check("traits.decisionMaking", p.Traits.DecisionMaking)

	if len(p.BackgroundGradient) < 2 {
		missing = append(missing, "backgroundGradient")
	}
	if len(p.Traits.SpeechPattern) == 0 {
		missing = append(missing, "traits.speechPattern")
	}
	if len(p.Traits.Philosophy) == 0 {
		missing = append(missing, "traits.philosophy")
	}
	if len(p.Traits.KeyPhrases) == 0 {
		missing = append(missing, "traits.keyPhrases")
	}
	if len(p.Traits.FamousQuotes) == 0 {
		missing = append(missing, "traits.famousQuotes")
	}
	if len(p.Specialties) == 0 {
		missing = append(missing, "specialties")
	}
	if !p.Category.IsValid() {
		missing = append(missing, "category")
	}

	return missing
}
