package api

import (
	"encoding/json"
	"net/http"

	"membox/internal/store"
)

// StatsHandler returns current operation metrics and allocation accounting
// as JSON. Only wired when the server was initialized with an
// InstrumentedStore over a MemStore.
func StatsHandler(instrumented *store.InstrumentedStore, mem *store.MemStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		metrics := instrumented.Metrics()
		alloc := mem.Stats()

		response := map[string]interface{}{
			"operations": map[string]uint64{
				"get":          metrics.GetCount,
				"get_hits":     metrics.GetHits,
				"set":          metrics.SetCount,
				"set_failures": metrics.SetFailures,
				"delete":       metrics.DeleteCount,
				"delete_hits":  metrics.DeleteHits,
			},
			"avg_latency": map[string]string{
				"get":    metrics.GetAvgLatency.String(),
				"set":    metrics.SetAvgLatency.String(),
				"delete": metrics.DeleteAvgLatency.String(),
			},
			"storage": alloc,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
