package shardmap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func BenchmarkMutableMapInsert(b *testing.B) {
	m := NewMutable[string, string]()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := fmt.Sprintf("key %d", i)
		v := fmt.Sprintf("value %d", i)
		m.Insert(k, v)
	}
}

func BenchmarkMutableMapGet(b *testing.B) {
	m := NewMutable[string, string]()

	for i := 0; i < b.N; i++ {
		k := fmt.Sprintf("key %d", i)
		v := fmt.Sprintf("value %d", i)
		m.Insert(k, v)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := fmt.Sprintf("key %d", i)
		m.Get(k)
	}
}

func BenchmarkMutableMapInsertGetConcurrent(b *testing.B) {
	m := NewMutable[string, string]()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var i int
		for pb.Next() {
			k := fmt.Sprintf("key %d", i)
			v := fmt.Sprintf("value %d", i)
			m.Insert(k, v)
			m.Get(k)
			i++
		}
	})
}

func BenchmarkMutableMapGetConcurrent(b *testing.B) {
	m := NewMutable[int, int]()
	for i := 0; i < 1000000; i++ {
		m.Insert(i, i)
	}

	var counter atomic.Int64
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Get(int(counter.Add(1) % 1000000))
		}
	})
}

func BenchmarkMapGetConcurrent(b *testing.B) {
	m := NewMutable[int, int]()
	for i := 0; i < 1000000; i++ {
		m.Insert(i, i)
	}
	frozen, err := m.Freeze()
	if err != nil {
		b.Fatal(err)
	}

	var counter atomic.Int64
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			frozen.Get(int(counter.Add(1) % 1000000))
		}
	})
}

func BenchmarkFreeze(b *testing.B) {
	for _, n := range []int{1000, 100000} {
		b.Run(fmt.Sprintf("entries_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				m := NewMutable[int, int]()
				for j := 0; j < n; j++ {
					m.Insert(j, j)
				}
				b.StartTimer()
				if _, err := m.Freeze(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRWMutexMapInsertGetConcurrent(b *testing.B) {
	m := make(map[string]string, b.N)
	var mu sync.RWMutex

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var i int
		for pb.Next() {
			k := fmt.Sprintf("key %d", i)
			v := fmt.Sprintf("value %d", i)
			mu.Lock()
			m[k] = v
			mu.Unlock()
			mu.RLock()
			_ = m[k]
			mu.RUnlock()
			i++
		}
	})
}

func BenchmarkSyncMapInsertGetConcurrent(b *testing.B) {
	var m sync.Map

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var i int
		for pb.Next() {
			k := fmt.Sprintf("key %d", i)
			v := fmt.Sprintf("value %d", i)
			m.Store(k, v)
			m.Load(k)
			i++
		}
	})
}
