package ai

// ModelPreset represents the model usage preset
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative" // persona 생성: 충실도 우선의 중간 온도
	PresetPrecise  ModelPreset = "precise"  // 분류/검증용
	PresetBalanced ModelPreset = "balanced"
)

// ModelConfig holds Gemini model configuration
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string // "application/json" or "text/plain"
}

// OpenAIPreset holds OpenAI-specific configuration
type OpenAIPreset struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata contains metadata about the generation
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for AI generation
type GenerateOptions struct {
	Model     string
	JSONMode  bool
	Overrides *ModelConfig
}

// GetPresetConfig returns the Gemini configuration for a preset. Persona
// synthesis uses Creative: 0.7 favors fidelity with a little variation, and
// the record is long so the token budget is generous.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 4096,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 1024,
		}
	case PresetBalanced:
		return ModelConfig{
			Temperature:     0.3,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 4096,
		}
	default:
		return GetPresetConfig(PresetBalanced)
	}
}

// GetOpenAIPresetConfig returns OpenAI configuration for a preset
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIPreset {
	switch preset {
	case PresetCreative:
		return OpenAIPreset{
			Temperature: 0.7,
			MaxTokens:   4096,
			TopP:        0.95,
		}
	case PresetPrecise:
		return OpenAIPreset{
			Temperature: 0.1,
			MaxTokens:   1024,
			TopP:        0.9,
		}
	case PresetBalanced:
		return OpenAIPreset{
			Temperature: 0.3,
			MaxTokens:   4096,
			TopP:        0.95,
		}
	default:
		return GetOpenAIPresetConfig(PresetBalanced)
	}
}
