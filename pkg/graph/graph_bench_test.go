package graph

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkGatewayRun measures Gateway.Run overhead (sanitization + retry
// bookkeeping) against seeded in-memory responses of varying row counts.
func BenchmarkGatewayRun(b *testing.B) {
	sizes := []int{1, 10, 100}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%d_rows", size), func(b *testing.B) {
			store := NewInMemoryStore()
			rows := make([]Record, size)
			for i := range rows {
				rows[i] = Record{"id": int64(i)}
			}
			store.Seed("Q", rows)

			gw := NewGateway(store, DefaultRetryPolicy(), 0)
			params := map[string]any{"sectionId": "S1", "__private": "stripped"}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := gw.Run(context.Background(), "Q", params); err != nil {
					b.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

// BenchmarkSanitizeParams measures the cost of stripping unbindable
// parameters from a request of varying width.
func BenchmarkSanitizeParams(b *testing.B) {
	sizes := []int{5, 50, 500}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%d_keys", size), func(b *testing.B) {
			params := make(map[string]any, size)
			for i := 0; i < size; i++ {
				params[fmt.Sprintf("key-%d", i)] = i
			}
			params["__internal"] = "x"

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_ = sanitizeParams(params)
			}
		})
	}
}
