package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAccountNo(t *testing.T) {
	// 账户号恒为10位数字
	for i := 0; i < 1000; i++ {
		no := GenerateAccountNo()
		assert.Len(t, no, 10)
		for _, c := range no {
			assert.True(t, c >= '0' && c <= '9', "no=%s", no)
		}
	}
}

func TestGenerateTransactionNo(t *testing.T) {
	no := GenerateTransactionNo()
	assert.True(t, strings.HasPrefix(no, "TXN"))

	// 并发生成不重复
	const n = 2000
	var mu sync.Mutex
	seen := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n/4; j++ {
				no := GenerateTransactionNo()
				mu.Lock()
				seen[no] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestNextIDMonotonic(t *testing.T) {
	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		assert.Greater(t, id, prev)
		prev = id
	}
}
