package httpserver

import (
	"net/http"
	"time"

	"github.com/andrebq/abacus/internal/logutil"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
		size   int
	}
)

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(buf []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(buf)
	s.size += n
	return n, err
}

// AccessLog tags every request with an id, places a logger carrying that id
// in the request context and writes one line once the response is done.
//
// Query strings are never logged.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		log := logutil.GetOrDefault(r.Context()).With().Str("request.id", reqID).Logger()
		r = r.WithContext(logutil.WithLogger(r.Context(), log))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		ev := log.Info()
		if rec.status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("http.method", r.Method).
			Str("http.path", r.URL.Path).
			Int("http.status", rec.status).
			Int("http.size", rec.size).
			Dur("http.duration", time.Since(start)).
			Msg("Request served")
	})
}
