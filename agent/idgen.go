package agent

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator 为消息生成不透明标识。
// 注入式设计，测试可替换为确定性实现。
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator 生成随机 UUID，是生产默认实现。
type UUIDGenerator struct{}

// NewUUIDGenerator 创建 UUID 生成器。
func NewUUIDGenerator() *UUIDGenerator { return &UUIDGenerator{} }

func (g *UUIDGenerator) NextID() string { return uuid.NewString() }

// SequentialGenerator 生成带前缀的单调序号，供测试使用。
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequentialGenerator 创建序号生成器。
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

func (g *SequentialGenerator) NextID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}
