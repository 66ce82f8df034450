package debugserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glade/internal/game/boot"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	h.ServeHTTP(w, req)
	return w
}

func TestBootEndpoint(t *testing.T) {
	tr := boot.NewTracker()
	tr.Mark(boot.RenderStarted)
	tr.Mark(boot.SetDressingReady)
	srv := New(tr, NewMetrics(tr))

	w := get(t, srv.Handler(), "/debug/boot")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tr.RunID(), body["runId"])
	assert.Equal(t, "setDressingReady", body["lastStage"])
	assert.Equal(t, true, body["overlayVisible"])
	assert.NotContains(t, body, "fatal")

	stages, ok := body["stages"].(map[string]any)
	require.True(t, ok, "stages should be an object")
	assert.Len(t, stages, len(boot.Stages))
	assert.Equal(t, true, stages["renderStarted"])
	assert.Equal(t, false, stages["characterReady"])

	timings, ok := body["timings"].(map[string]any)
	require.True(t, ok, "timings should be an object")
	assert.Contains(t, timings, "renderStarted")
	assert.NotContains(t, timings, "characterReady")
}

func TestBootEndpointReportsFatal(t *testing.T) {
	tr := boot.NewTracker()
	tr.ForceHide(assert.AnError)
	srv := New(tr, NewMetrics(tr))

	var snap boot.Snapshot
	w := get(t, srv.Handler(), "/debug/boot")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.False(t, snap.OverlayVisible)
	assert.Equal(t, assert.AnError.Error(), snap.Fatal)
}

func TestMetricsEndpoint(t *testing.T) {
	tr := boot.NewTracker()
	tr.Mark(boot.CharacterReady)
	m := NewMetrics(tr)
	m.ObserveFrame(16*time.Millisecond, 42)
	m.ObserveFrame(20*time.Millisecond, 40)
	srv := New(tr, m)

	w := get(t, srv.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	text := w.Body.String()

	assert.Contains(t, text, "glade_frames_total 2")
	assert.Contains(t, text, "glade_draw_calls 40")
	assert.Contains(t, text, "glade_frame_seconds_count 2")
	assert.Contains(t, text, `glade_boot_stage_reached{stage="characterReady"} 1`)
	assert.Contains(t, text, `glade_boot_stage_reached{stage="landmarksReady"} 0`)
	assert.Contains(t, text, "glade_boot_overlay_visible 1")
}

func TestMetricsRegistryIsPrivate(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetrics(boot.NewTracker())
	b := NewMetrics(boot.NewTracker())
	assert.NotSame(t, a.Registry(), b.Registry())

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "glade_boot_stage_reached")
}

func TestProcessEndpoint(t *testing.T) {
	srv := New(boot.NewTracker(), NewMetrics(nil))
	w := get(t, srv.Handler(), "/debug/process")
	require.Equal(t, http.StatusOK, w.Code)

	var st ProcessStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Positive(t, st.PID)
	assert.Positive(t, st.Goroutines)
}

func TestStartAndShutdown(t *testing.T) {
	tr := boot.NewTracker()
	srv := New(tr, NewMetrics(tr))
	addr, err := srv.Start("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/debug/boot")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), tr.RunID()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
