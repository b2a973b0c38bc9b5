package prompt

import (
	"encoding/json"
	"fmt"
)

// PersonaPromptVars holds variables for the persona synthesis prompt.
type PersonaPromptVars struct {
	Name        string
	Summary     string // already truncated by the caller
	ImageURL    string // resolved portrait, empty when unavailable
	ExampleJSON string // complete exemplar record, indented JSON
}

// MarshalExample renders a record as the indented JSON embedded in the prompt.
func MarshalExample(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal example persona: %w", err)
	}
	return string(data), nil
}

// BuildPersonaPrompt builds the schema-constrained synthesis instruction.
// The exemplar gives the model a concrete shape to imitate, the evidence
// block anchors it to facts, and the checklist enumerates every field
// constraint. Output must be a single JSON object with no surrounding prose.
func BuildPersonaPrompt(vars PersonaPromptVars) string {
	evidenceBlock := ""
	if vars.Summary != "" {
		imageLine := ""
		if vars.ImageURL != "" {
			imageLine = fmt.Sprintf("\n画像URL: %s", vars.ImageURL)
		}
		evidenceBlock = fmt.Sprintf(`
【Wikipediaからの情報】
%s%s
`, vars.Summary, imageLine)
	}

	avatarRule := avatarRuleWithout
	if vars.ImageURL != "" {
		avatarRule = fmt.Sprintf(`   - **以下のWikipediaの画像URLをそのまま使用してください**: "%s"
   - URLを変更したり、別のURLを生成したりしないこと`, vars.ImageURL)
	}

	return fmt.Sprintf(`あなたは歴史上の人物や著名人の詳細なプロフィールを生成する専門家です。
以下のJSON形式の完璧な例を参考に、「%s」という人物の詳細情報を同じ品質レベルでJSON形式で生成してください。
%s
【完璧な参考例】
%s

【厳密な要件】

1. **JSON構造**: 上記と全く同じJSON構造で出力してください

2. **基本情報**:
   - id: UUID形式で一意のIDを生成（例: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"）
   - name: 「%s」を使用
   - nameEn: 英語名またはローマ字表記
   - era: 生没年や活動時期（例: "1901-1966", "BC384-BC322"）
   - title: 職業や肩書き（簡潔かつ具体的に）

3. **avatar画像URL**:
%s

4. **systemPrompt** (最重要):
   - 300-500文字以上の詳細なプロンプトを作成
   - 人物の性格、話し方、思考パターンを具体的に描写
   - 「あなたは[人物名]です。」で始める
   - 人物の特徴、信念、行動様式を詳しく説明
   - 会話でどのように振る舞うべきかを明確に指示

5. **backgroundGradient**:
   - 2-3色の配列（例: ["blue-500", "purple-600"]）
   - 使用可能な色: red, orange, yellow, green, blue, indigo, purple, pink, gray（各色に-500, -600, -700, -800, -900のバリエーション）

6. **textColor**: 必ず "white" を使用

7. **traits**:
   - speechPattern: 3-4個の特徴的な話し方や口癖
   - philosophy: 3-6個の人物の哲学や信念
   - decisionMaking: 意思決定の特徴を1文で説明
   - keyPhrases: 3-4個の特徴的なフレーズ
   - famousQuotes: 2-4個の実際の名言（日本語と英語の両方を含む）

8. **specialties**: 3-5個の専門分野や得意領域

9. **historicalContext**:
   - 200-400文字の詳細な歴史的背景
   - 生い立ち、主要な業績、影響、レガシーを含む

10. **category**:
   - 以下のいずれかを自動選択（英語の値を使用）:
     * "business": ビジネス・起業家
     * "philosophy": 哲学・宗教
     * "science": 科学・技術
     * "art": 芸術・文化
     * "music": 音楽・芸能
     * "sports": スポーツ
     * "social": 社会活動・政治
     * "other": その他
   - 複数の領域で活躍した人物の場合は、最も影響力が大きかった主要領域を選択

【出力形式】
- JSONのみを出力し、他の説明やマークダウンは一切含めない
- すべての文字列は適切にエスケープ

上記の基準を厳密に守って、最高品質の人物プロフィールを生成してください。`,
		vars.Name,
		evidenceBlock,
		vars.ExampleJSON,
		vars.Name,
		avatarRule,
	)
}

const avatarRuleWithout = `   - Wikipediaの256px版画像URLを使用
   - 形式: "https://upload.wikimedia.org/wikipedia/commons/thumb/[2文字]/[2文字]/[filename]/256px-[filename]"
   - 実在する画像が不明な場合は空文字 "" を使用`
