package netbridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mtaktikos/dropchess/pkg/engine/netbridge"
	"github.com/stretchr/testify/require"
)

func TestServeDialBridgesLinesBothWays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var serverIn <-chan string
	var serverOut chan<- string
	ready := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, out, err := netbridge.Serve(ctx, w, r)
		require.NoError(t, err)
		serverIn, serverOut = in, out
		close(ready)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientIn, clientOut, err := netbridge.Dial(ctx, url)
	require.NoError(t, err)

	<-ready

	clientOut <- "protover 2"
	select {
	case line := <-serverIn:
		require.Equal(t, "protover 2", line)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server to receive line")
	}

	serverOut <- "feature done=1"
	select {
	case line := <-clientIn:
		require.Equal(t, "feature done=1", line)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for client to receive line")
	}
}
