// Package mempool keeps sized pools of scratch buffers for the hot paths of
// blob labelling and curvature estimation.
package mempool

import "sync"

var (
	intPools     sync.Map // key: size class (int), value: *sync.Pool
	float64Pools sync.Map // key: size class (int), value: *sync.Pool
)

// sizeClass rounds n up to the next multiple of 1024 to reduce churn.
func sizeClass(n int) int {
	const step = 1024
	if n <= step {
		return step
	}
	return (n + step - 1) / step * step
}

func poolFor[T any](pools *sync.Map, cls int) *sync.Pool {
	pAny, _ := pools.LoadOrStore(cls, &sync.Pool{New: func() any {
		buf := make([]T, cls)
		return &buf
	}})
	return pAny.(*sync.Pool) //nolint:forcetypeassert // only *sync.Pool is stored
}

func get[T any](pools *sync.Map, n int) []T {
	cls := sizeClass(n)
	bp, ok := poolFor[T](pools, cls).Get().(*[]T)
	if !ok || cap(*bp) < cls {
		return make([]T, n, cls)
	}
	buf := (*bp)[:n]
	clear(buf)
	return buf
}

func put[T any](pools *sync.Map, buf []T) {
	if buf == nil {
		return
	}
	// Buffers only ever come from get, so cap is a size class. A foreign
	// slice lands in the class below its capacity and still satisfies it.
	cls := cap(buf) / 1024 * 1024
	if cls == 0 {
		return
	}
	buf = buf[:cap(buf)]
	poolFor[T](pools, cls).Put(&buf)
}

// GetInts returns a zeroed []int of length n. Return it with PutInts.
func GetInts(n int) []int { return get[int](&intPools, n) }

// PutInts returns a buffer to the pool. It is safe to pass a nil slice.
func PutInts(buf []int) { put(&intPools, buf) }

// GetFloat64 returns a zeroed []float64 of length n. Return it with
// PutFloat64.
func GetFloat64(n int) []float64 { return get[float64](&float64Pools, n) }

// PutFloat64 returns a buffer to the pool. It is safe to pass a nil slice.
func PutFloat64(buf []float64) { put(&float64Pools, buf) }
