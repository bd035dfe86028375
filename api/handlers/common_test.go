package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/llm"
	"github.com/BaSui01/lexflow/types"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"busy", types.NewError(types.ErrAgentBusy, "agent is processing"), http.StatusConflict, "AGENT_BUSY"},
		{"precondition", types.NewError(types.ErrPreconditionFailed, "no case bound"), http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
		{"invalid", types.NewError(types.ErrInvalidRequest, "bad"), http.StatusBadRequest, "INVALID_REQUEST"},
		{"upstream timeout", types.NewError(types.ErrUpstreamTimeout, "slow"), http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
		{"explicit status wins", types.NewError(types.ErrInvalidRequest, "bad").WithHTTPStatus(http.StatusTeapot), http.StatusTeapot, "INVALID_REQUEST"},
		{"llm error", &llm.Error{Code: llm.ErrRateLimited, Message: "slow down", HTTPStatus: http.StatusTooManyRequests, Retryable: true}, http.StatusTooManyRequests, "LLM_RATE_LIMITED"},
		{"llm error without status", &llm.Error{Code: llm.ErrUpstreamError, Message: "boom"}, http.StatusBadGateway, "LLM_UPSTREAM_ERROR"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"bogus":true}`))

	var dst struct {
		Message string `json:"message"`
	}
	err := DecodeJSONBody(rec, r, &dst, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	_, err := rw.Write([]byte("body"))
	require.NoError(t, err)
	assert.True(t, rw.Written)
	assert.Equal(t, http.StatusOK, rw.StatusCode)

	// 第二次 WriteHeader 不覆盖已写状态。
	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, rw.StatusCode)
}
