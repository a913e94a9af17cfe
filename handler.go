package shadowprobe

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
)

// Handler serves GET /{handle}: pick one session, run the probe, return
// the assembled result as JSON. Probe failures map to 5xx, never to a
// fabricated 200.
func Handler(pool *Pool, corsAllow string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{handle}", func(w http.ResponseWriter, r *http.Request) {
		handle := r.PathValue("handle")
		session := pool.Pick()

		result, err := session.Probe(r.Context(), handle)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrUnexpectedAPI) {
				status = http.StatusInternalServerError
			}
			slog.Error("probe failed", slog.String("handle", handle), slog.Any("error", err))
			http.Error(w, http.StatusText(status), status)
			return
		}

		data, err := sonic.Marshal(result)
		if err != nil {
			slog.Error("result encoding failed", slog.String("handle", handle), slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if corsAllow != "" {
			w.Header().Set("Access-Control-Allow-Origin", corsAllow)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		slog.Info("probe completed", slog.String("handle", handle), slog.String("result", string(data)))
	})
	return mux
}
