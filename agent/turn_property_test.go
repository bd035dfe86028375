package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/BaSui01/lexflow/types"
)

// 任意轮数与任意窗口配置下的一轮生命周期不变式。
func TestTurnLifecycleProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("window bounded and pair-ordered after N turns", prop.ForAll(
		func(maxLen, turns int) bool {
			cfg := types.DefaultAgentConfig()
			cfg.MaxContextLength = maxLen
			ag, err := New(testContext(), cfg, echoProcessor(), NewSequentialGenerator("msg"), nil)
			if err != nil {
				return false
			}

			for i := 0; i < turns; i++ {
				if _, err := ag.SendMessage(context.Background(), fmt.Sprintf("q%d", i)); err != nil {
					return false
				}
			}

			short := ag.Memory().ShortTerm
			if len(short) > maxLen {
				return false
			}
			if turns == 0 {
				return len(short) == 0
			}

			// 记忆以最近一对问答收尾（窗口足够大时），或至少以助手消息收尾。
			last := short[len(short)-1]
			if last.Role != types.RoleAssistant {
				return false
			}
			if len(short) >= 2 {
				prev := short[len(short)-2]
				if prev.Role == types.RoleUser && "echo: "+prev.Content != last.Content {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 12),
	))

	properties.Property("failed turn leaves dangling user message and error", prop.ForAll(
		func(turns int) bool {
			cfg := types.DefaultAgentConfig()
			proc := procFunc(func(ctx context.Context, turn *Turn) (*types.AgentResponse, error) {
				return nil, types.NewError(types.ErrUpstreamError, "down")
			})
			ag, err := New(testContext(), cfg, proc, NewSequentialGenerator("msg"), nil)
			if err != nil {
				return false
			}

			for i := 0; i < turns; i++ {
				if _, err := ag.SendMessage(context.Background(), "q"); err == nil {
					return false
				}
			}

			state := ag.State()
			if len(state.Memory.ShortTerm) != min(turns, cfg.MaxContextLength) {
				return false
			}
			for _, msg := range state.Memory.ShortTerm {
				if msg.Role != types.RoleUser {
					return false
				}
			}
			return turns == 0 || state.Err != nil
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
