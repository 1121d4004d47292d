package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/andrebq/abacus/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/require"
)

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	ctx := logutil.WithLogger(context.Background(), zerolog.New(&buf))
	var seenID string
	handler := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logutil.GetOrDefault(r.Context())
		log.Info().Msg("inside")
		seenID = w.Header().Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout")
	}))
	withCtx := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r.WithContext(ctx))
	})

	apitest.New().
		Handler(withCtx).
		Get("/api/calculate").
		Query("secret", "value").
		Expect(t).
		Status(http.StatusTeapot).
		HeaderPresent(RequestIDHeader).
		End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], fmt.Sprintf(`"request.id":%q`, seenID))
	require.Contains(t, lines[1], `"http.status":418`)
	require.Contains(t, lines[1], `"http.path":"/api/calculate"`)
	require.Contains(t, lines[1], `"http.size":15`)
	require.NotContains(t, buf.String(), "secret")
}

func TestAccessLogKeepsValidRequestID(t *testing.T) {
	id := "7d3c5bb8-9a2c-4b8e-8f39-3c0e5a0f6b11"
	apitest.New().
		Handler(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))).
		Get("/").
		Header(RequestIDHeader, id).
		Expect(t).
		Status(http.StatusOK).
		Header(RequestIDHeader, id).
		End()

	apitest.New().
		Handler(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))).
		Get("/").
		Header(RequestIDHeader, "not a uuid\nforged").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			if res.Header.Get(RequestIDHeader) == "not a uuid\nforged" {
				return fmt.Errorf("invalid request id should have been replaced")
			}
			return nil
		}).
		End()
}

func TestServeListenerShutdown(t *testing.T) {
	lst, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeListener(ctx, lst, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "ok")
		}))
	}()

	var res *http.Response
	require.Eventually(t, func() bool {
		res, err = http.Get(fmt.Sprintf("http://%v/", lst.Addr()))
		return err == nil
	}, time.Second*5, time.Millisecond*10)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 10):
		t.Fatal("server did not stop after cancel")
	}
}
