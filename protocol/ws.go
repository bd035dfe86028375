package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"

	"github.com/BaSui01/lexflow/types"
)

// WriteWSFrame 将一帧以文本消息写入 websocket 连接。
// websocket 自带消息边界，无需行分隔。
func WriteWSFrame(ctx context.Context, c *websocket.Conn, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	return c.Write(ctx, websocket.MessageText, data)
}

// ReadWSFrame 从 websocket 连接读取一帧。
func ReadWSFrame(ctx context.Context, c *websocket.Conn) (Frame, error) {
	_, data, err := c.Read(ctx)
	if err != nil {
		return Frame{}, err
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, types.WrapError(types.ErrMalformedFrame, "unmarshal frame", err)
	}
	return f, nil
}

// ReadWSResult 读取 websocket 帧流直至终结帧。
// 与 Decoder 同一契约：坏帧跳过，连接关闭而未见 response 帧时
// 返回 ErrNoResponse。
func ReadWSResult(ctx context.Context, c *websocket.Conn, onThinking func(step string)) (*DecodeResult, error) {
	var steps []string
	for {
		f, err := ReadWSFrame(ctx, c)
		if err != nil {
			if types.IsErrorCode(err, types.ErrMalformedFrame) {
				continue
			}
			return nil, types.NewError(types.ErrNoResponse, "no response received").WithCause(err)
		}

		switch f.Type {
		case FrameThinkingStep:
			steps = append(steps, f.Content)
			if onThinking != nil {
				onThinking(f.Content)
			}
		case FrameResponse:
			if len(f.ThinkingSteps) > 0 {
				steps = f.ThinkingSteps
			}
			return &DecodeResult{Content: f.Content, ThinkingSteps: steps}, nil
		}
	}
}
