package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kayz-mann/trip-planner/client"
	"github.com/Kayz-mann/trip-planner/internal/config"
	"github.com/Kayz-mann/trip-planner/internal/mockserver"
	"github.com/Kayz-mann/trip-planner/internal/mockserver/store"
)

func TestServe_ServesTripsAndShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var logs bytes.Buffer
	log := mockserver.NewLogger(&logs, "trip-mock-server")
	cfg := &config.Config{MockDBPath: store.MemoryPath, MockEnvelope: true, LogLevel: "info"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, cfg, log) }()

	base := "http://" + ln.Addr().String()
	c := client.New(base + mockserver.CollectionPath)

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()

	trip, err := c.CreateTrip(reqCtx, client.TripRequest{Name: "Tokyo", Destination: "Japan"})
	require.NoError(t, err)
	require.True(t, trip.HasID())

	trips, err := c.ListTrips(reqCtx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Tokyo", trips[0].Name)

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, strings.Contains(logs.String(), "Server exited"))
}

func TestServe_StoreFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var logs bytes.Buffer
	cfg := &config.Config{MockDBPath: t.TempDir()}
	err = serve(context.Background(), ln, cfg, mockserver.NewLogger(&logs, "trip-mock-server"))
	require.Error(t, err)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	var logs bytes.Buffer
	cmd := NewRootCmd(mockserver.NewLogger(&logs, "trip-mock-server"))
	cmd.SetArgs([]string{"extra"})
	require.Error(t, cmd.Execute())
}
