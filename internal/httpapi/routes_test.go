package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
	"github.com/DoyleJ11/sketchparty-backend/internal/ws"
)

type discardSink struct{}

func (discardSink) Send(protocol.Envelope) bool { return true }

func newRouter(t *testing.T) (http.Handler, *registry.Registry) {
	t.Helper()
	reg := registry.New(context.Background(), registry.Options{Catalog: []string{"King"}})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
	})
	return SetupRoutes(reg, ws.Options{}, nil), reg
}

func TestHealthz(t *testing.T) {
	h, _ := newRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoomSummary_NotFound(t *testing.T) {
	h, _ := newRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/ZZZZ", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoomSummary_Live(t *testing.T) {
	h, reg := newRouter(t)
	rm, err := reg.Create(context.Background(), "host", "Ann", game.DefaultSettings(), discardSink{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/"+strings.ToLower(rm.Code()), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got game.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, rm.Code(), got.Code)
	assert.Equal(t, game.StateLobby, got.State)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "Ann", got.Players[0].Name)
	assert.Equal(t, game.DefaultRounds, got.TotalRounds)
}
