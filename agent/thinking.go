package agent

import "context"

// ThinkingEmitter 接收一条思考步骤。
// 回调在处理协程内同步执行，实现方不应阻塞。
type ThinkingEmitter func(step string)

type thinkingEmitterKey struct{}

// WithThinkingEmitter 在 ctx 中注入思考步骤回调。
func WithThinkingEmitter(ctx context.Context, emit ThinkingEmitter) context.Context {
	if emit == nil {
		return ctx
	}
	return context.WithValue(ctx, thinkingEmitterKey{}, emit)
}

// thinkingEmitterFromContext 读取注入的回调，未注入时返回 false。
func thinkingEmitterFromContext(ctx context.Context) (ThinkingEmitter, bool) {
	emit, ok := ctx.Value(thinkingEmitterKey{}).(ThinkingEmitter)
	return emit, ok && emit != nil
}

// EmitThinking 发布一条思考步骤；未注入回调时为空操作。
func EmitThinking(ctx context.Context, step string) {
	if emit, ok := thinkingEmitterFromContext(ctx); ok {
		emit(step)
	}
}
