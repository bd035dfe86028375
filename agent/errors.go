package agent

import (
	"net/http"

	"github.com/BaSui01/lexflow/types"
)

// errBusy 在同一实例上并发调用 SendMessage 时同步返回。
func errBusy() *types.Error {
	return types.NewError(types.ErrAgentBusy, "agent is processing another message").
		WithHTTPStatus(http.StatusConflict)
}

// errCaseNotBound 在案件模式未绑定 caseId 时返回。
// 请求本身格式合法，是会话状态不满足前置条件，因此用 422 而非 400。
func errCaseNotBound() *types.Error {
	return types.NewError(types.ErrPreconditionFailed, "no case id bound in agent context").
		WithHTTPStatus(http.StatusUnprocessableEntity)
}
