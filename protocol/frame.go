package protocol

// FrameType 标记帧的种类。
type FrameType string

const (
	// FrameThinkingStep 是一条中间思考步骤。
	FrameThinkingStep FrameType = "thinking_step"

	// FrameResponse 是终结帧，每个流恰好一条且必须最后出现。
	FrameResponse FrameType = "response"
)

// Frame 是线上传输的一帧。
// thinking_step 帧只填 Content；response 帧填 Content 与全部
// ThinkingSteps。
type Frame struct {
	Type          FrameType `json:"type"`
	Content       string    `json:"content"`
	ThinkingSteps []string  `json:"thinking_steps,omitempty"`
}
