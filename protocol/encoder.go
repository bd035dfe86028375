package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// flusher 覆盖 http.Flusher 与 bufio.Writer 两类冲刷接口。
type flusher interface {
	Flush()
}

type errFlusher interface {
	Flush() error
}

// Encoder 将帧编码为按行分隔的 JSON 并写入底层传输。
// 每帧写入后尽力冲刷，保证思考步骤即时可见。
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEncoder 创建编码器。
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteThinkingStep 写出一条思考步骤帧。
func (e *Encoder) WriteThinkingStep(step string) error {
	return e.writeFrame(Frame{Type: FrameThinkingStep, Content: step})
}

// WriteResponse 写出终结帧。调用方保证这是最后一帧。
func (e *Encoder) WriteResponse(content string, thinkingSteps []string) error {
	return e.writeFrame(Frame{Type: FrameResponse, Content: content, ThinkingSteps: thinkingSteps})
}

func (e *Encoder) writeFrame(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	switch fl := e.w.(type) {
	case flusher:
		fl.Flush()
	case errFlusher:
		if err := fl.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
	}
	return nil
}
