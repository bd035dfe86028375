package casefile

import (
	"context"
	"time"

	"github.com/BaSui01/lexflow/types"
)

// TimelineEvent 表示案件时间线上的一个事件。
// 对话产生的事件以 Query/Response/Metadata 保留完整一轮，
// Description 仅作列表展示用的摘要。
type TimelineEvent struct {
	ID          string                 `json:"id,omitempty"`
	Description string                 `json:"description"`
	Category    string                 `json:"category,omitempty"`
	Query       string                 `json:"query,omitempty"`
	Response    string                 `json:"response,omitempty"`
	Metadata    *types.MessageMetadata `json:"metadata,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// Case 表示一个案件的上下文快照。
type Case struct {
	ID           string          `json:"id"`
	Title        string          `json:"title,omitempty"`
	Type         string          `json:"type"`
	Stage        string          `json:"stage"`
	KeyFacts     []string        `json:"key_facts,omitempty"`
	NextDeadline *time.Time      `json:"next_deadline,omitempty"`
	RecentEvents []TimelineEvent `json:"recent_events,omitempty"`
	Timeline     []TimelineEvent `json:"timeline,omitempty"`
}

// Client 是案件服务的统一接口。
type Client interface {
	// GetCase 读取案件上下文。
	GetCase(ctx context.Context, caseID string) (*Case, error)

	// UpdateTimeline 向案件时间线追加一个事件。
	UpdateTimeline(ctx context.Context, caseID string, event TimelineEvent) error
}
