package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/lexflow/types"
)

// DecodeResult 是一次成功解码的产物。
type DecodeResult struct {
	Content       string
	ThinkingSteps []string
}

// Decoder 从分块传输中增量解码帧流。
// 不完整的行跨分块缓冲；无法解析的行跳过并记录；传输关闭而未见
// response 帧时返回 ErrNoResponse 硬失败。
type Decoder struct {
	r      *bufio.Reader
	logger *zap.Logger
}

// NewDecoder 创建解码器。
func NewDecoder(r io.Reader, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{
		r:      bufio.NewReader(r),
		logger: logger.With(zap.String("component", "protocol_decoder")),
	}
}

// Decode 读取整个流直至关闭。
// onThinking 非 nil 时，每条思考步骤帧到达即回调一次，按帧序执行。
func (d *Decoder) Decode(onThinking func(step string)) (*DecodeResult, error) {
	var steps []string

	for {
		line, err := d.r.ReadString('\n')

		// EOF 时 line 可能携带未换行的残余，仍按一行处理。
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			var f Frame
			if jsonErr := json.Unmarshal([]byte(trimmed), &f); jsonErr != nil {
				// 分块重组后仍不可解析的行是真正的坏帧，跳过不终止。
				d.logger.Warn("skipping malformed frame", zap.Error(jsonErr))
			} else {
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
				default:
					d.logger.Warn("skipping frame with unknown type", zap.String("type", string(f.Type)))
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				// 只有思考步骤而无终结帧的流不是安静的成功。
				return nil, types.NewError(types.ErrNoResponse, "no response received")
			}
			return nil, types.WrapError(types.ErrStreamClosed, "stream read failed", err)
		}
	}
}
