package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intent 是案件模式的封闭意图枚举。
// 未识别的分类结果显式落到 IntentGeneralQuery，而非隐式 default。
type Intent string

const (
	IntentDocumentRequest      Intent = "DOCUMENT_REQUEST"
	IntentTimelineQuery        Intent = "TIMELINE_QUERY"
	IntentLegalAnalysis        Intent = "LEGAL_ANALYSIS"
	IntentActionRecommendation Intent = "ACTION_RECOMMENDATION"
	IntentGeneralQuery         Intent = "GENERAL_QUERY"
)

// Intents 列出全部意图，供分类提示词与测试枚举。
func Intents() []Intent {
	return []Intent{
		IntentDocumentRequest,
		IntentTimelineQuery,
		IntentLegalAnalysis,
		IntentActionRecommendation,
		IntentGeneralQuery,
	}
}

// ParseIntent 将分类器输出归一到枚举，未知标签归为 GeneralQuery。
func ParseIntent(s string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentDocumentRequest:
		return IntentDocumentRequest
	case IntentTimelineQuery:
		return IntentTimelineQuery
	case IntentLegalAnalysis:
		return IntentLegalAnalysis
	case IntentActionRecommendation:
		return IntentActionRecommendation
	case IntentGeneralQuery:
		return IntentGeneralQuery
	}
	return IntentGeneralQuery
}

// intentClassification 是意图分类调用的线上结构。
// Confidence 仅记录，不做阈值门控。
type intentClassification struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// parseIntentClassification 解析分类调用返回的 JSON。
func parseIntentClassification(raw string) (Intent, float64, error) {
	cleaned := stripCodeFence(raw)

	var ic intentClassification
	if err := json.Unmarshal([]byte(cleaned), &ic); err != nil {
		return "", 0, fmt.Errorf("parse intent classification: %w", err)
	}
	return ParseIntent(ic.Type), ic.Confidence, nil
}
