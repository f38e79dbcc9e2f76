package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeClass(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 1024},
		{1, 1024},
		{1024, 1024},
		{1025, 2048},
		{5000, 5120},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sizeClass(tt.n), "n=%d", tt.n)
	}
}

func TestGetInts_ZeroedAfterReuse(t *testing.T) {
	buf := GetInts(100)
	assert.Len(t, buf, 100)
	assert.GreaterOrEqual(t, cap(buf), 1024)
	for i := range buf {
		buf[i] = i + 1
	}
	PutInts(buf)

	for range 10 {
		again := GetInts(200)
		assert.Len(t, again, 200)
		for _, v := range again {
			assert.Zero(t, v)
		}
		PutInts(again)
	}
}

func TestGetFloat64_Large(t *testing.T) {
	buf := GetFloat64(3000)
	assert.Len(t, buf, 3000)
	assert.Equal(t, 3072, cap(buf))
	buf[2999] = 1.5
	PutFloat64(buf)

	again := GetFloat64(3000)
	assert.Zero(t, again[2999])
	PutFloat64(again)
}

func TestPut_NilAndForeign(t *testing.T) {
	assert.NotPanics(t, func() {
		PutInts(nil)
		PutFloat64(nil)
		PutInts(make([]int, 10))
		PutFloat64(make([]float64, 1500))
	})

	// The foreign 1500-cap buffer may only serve requests it can hold.
	buf := GetFloat64(1024)
	assert.Len(t, buf, 1024)
	PutFloat64(buf)
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				n := (w+1)*100 + i
				buf := GetInts(n)
				for j := range buf {
					buf[j] = w
				}
				PutInts(buf)
			}
		}()
	}
	wg.Wait()
}
