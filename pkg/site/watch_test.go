package site

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoviz/flowcycle/pkg/flow"
)

func TestWatchReloadsAndBroadcasts(t *testing.T) {
	s, dir := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := s.Watch(ctx); err != nil {
			t.Errorf("watch failed: %v", err)
		}
	}()

	// Connect a live-reload client before touching any files, so every
	// broadcast from here on must reach it.
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	conn := dialHub(t, srv.URL+"/live")
	defer conn.Close()
	require.Eventually(t, func() bool { return s.Hub().Count() == 1 },
		time.Second, 10*time.Millisecond)

	// Rewrite until the reload lands; the first write can race the watcher
	// starting up.
	doc := testDocument()
	doc.Name = "Updated flows"
	dataPath := filepath.Join(dir, "plant.json")
	require.Eventually(t, func() bool {
		if err := flow.WriteFile(dataPath, doc, true); err != nil {
			return false
		}
		return s.document().Name == "Updated flows"
	}, 5*time.Second, 250*time.Millisecond, "watcher should reload the document")

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}
