// internal/rng/rng.go
package rng

import (
	"math/rand"
	"time"
)

// Rand 是合成器与回复生成器使用的随机源接口
// *math/rand.Rand 天然满足该接口，测试中可传入固定种子实现可复现
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// New 创建一个以当前时间为种子的随机源
func New() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded 创建一个固定种子的随机源（用于测试）
func NewSeeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Pick 从候选列表中随机选择一项
// 空列表返回零值，调用方应保证每个模板桶都有兜底条目
func Pick[T any](r Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}
