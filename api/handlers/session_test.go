package handlers

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/internal/metrics"
	"github.com/BaSui01/lexflow/types"
)

func researchContext(sessionID string) types.AgentContext {
	return types.AgentContext{Mode: types.ModeResearch, SessionID: sessionID}
}

func TestSessionManagerRequiresProvider(t *testing.T) {
	_, err := NewSessionManager(Deps{AgentConfig: types.DefaultAgentConfig()})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidRequest))
}

func TestSessionManagerGetOrCreateReturnsSameInstance(t *testing.T) {
	sm, err := NewSessionManager(testDeps(echoProvider("x"), &fakeRetriever{}))
	require.NoError(t, err)

	a1, err := sm.GetOrCreate(researchContext("s1"))
	require.NoError(t, err)
	a2, err := sm.GetOrCreate(researchContext("s1"))
	require.NoError(t, err)
	assert.Same(t, a1, a2)
	assert.Equal(t, 1, sm.Count())
}

func TestSessionManagerModeMismatch(t *testing.T) {
	sm, err := NewSessionManager(testDeps(echoProvider("x"), &fakeRetriever{}))
	require.NoError(t, err)

	_, err = sm.GetOrCreate(researchContext("s1"))
	require.NoError(t, err)

	_, err = sm.GetOrCreate(types.AgentContext{Mode: types.ModePlayground, SessionID: "s1"})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidRequest))
	assert.Contains(t, err.Error(), "bound to mode research")
}

func TestSessionManagerMissingCollaborators(t *testing.T) {
	sm, err := NewSessionManager(testDeps(echoProvider("x"), nil))
	require.NoError(t, err)

	_, err = sm.GetOrCreate(researchContext("s1"))
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrServiceUnavailable))

	_, err = sm.GetOrCreate(types.AgentContext{Mode: types.ModeCase, SessionID: "s2"})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrServiceUnavailable))

	// playground 不依赖检索与案件客户端。
	_, err = sm.GetOrCreate(types.AgentContext{Mode: types.ModePlayground, SessionID: "s3"})
	assert.NoError(t, err)
}

func TestSessionManagerRemove(t *testing.T) {
	sm, err := NewSessionManager(testDeps(echoProvider("x"), &fakeRetriever{}))
	require.NoError(t, err)

	_, err = sm.GetOrCreate(researchContext("s1"))
	require.NoError(t, err)
	require.Equal(t, 1, sm.Count())

	sm.Remove("s1")
	assert.Equal(t, 0, sm.Count())
	_, ok := sm.Get("s1")
	assert.False(t, ok)
}

func TestSessionManagerUpdatesActiveSessionsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	deps := testDeps(echoProvider("x"), &fakeRetriever{})
	deps.Collector = metrics.NewCollector("test", reg, nil)

	sm, err := NewSessionManager(deps)
	require.NoError(t, err)

	_, err = sm.GetOrCreate(researchContext("s1"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, gaugeValue(t, reg, "test_active_sessions"))

	sm.Remove("s1")
	assert.Equal(t, 0.0, gaugeValue(t, reg, "test_active_sessions"))
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
