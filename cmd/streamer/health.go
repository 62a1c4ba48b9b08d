package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Anish565/Cloud-Final-Project/internal/connection"
	"github.com/Anish565/Cloud-Final-Project/internal/sink"
)

type feedStatus interface {
	Stats() connection.FeedStats
}

type pinger interface {
	Ping(ctx context.Context) error
}

type queueStatus interface {
	Stats() sink.QueueStats
	Failures() int64
}

// newHealthHandler serves /health. The store being unreachable is unhealthy;
// a feed that is not subscribed is degraded.
func newHealthHandler(feed feedStatus, st pinger, queue queueStatus) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := st.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["store"] = map[string]string{
				"status": "unreachable",
				"error":  err.Error(),
			}
		} else {
			health.Components["store"] = "connected"
		}

		fs := feed.Stats()
		health.Components["feed"] = map[string]any{
			"state":      fs.State.String(),
			"connects":   fs.Connects,
			"reconnects": fs.Reconnects,
			"frames":     fs.FramesDecoded,
			"dropped":    fs.FramesDropped,
		}
		if fs.State != connection.StateSubscribed && health.Status == "healthy" {
			health.Status = "degraded"
		}

		qs := queue.Stats()
		health.Components["sink_queue"] = map[string]any{
			"pending":  qs.Pending,
			"capacity": qs.Capacity,
			"failures": queue.Failures(),
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		sonic.ConfigStd.NewEncoder(w).Encode(health)
	})

	return mux
}
