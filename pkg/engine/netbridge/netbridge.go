// Package netbridge carries an engine protocol (xboard or console, see
// pkg/engine/xboard and pkg/engine/console) over a websocket connection
// instead of stdin/stdout, so a driver can be hosted as a network service.
//
// Grounded on cmd/livechess-uci/main.go's adaptor: that file bridges an
// external event feed (a DGT EBoard's move events, delivered over the
// herohde/livechess-go client) into the engine's input. netbridge
// generalizes the same "external line feed adapted into a <-chan string"
// shape to a plain websocket text-frame connection, using
// github.com/gorilla/websocket directly instead of a device-specific
// client.
package netbridge

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
)

// Upgrader is the shared websocket upgrader for inbound engine connections.
// Origin checking is left to the caller's http.Handler wiring.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Serve upgrades r/w to a websocket connection and bridges it to the line
// channels a pkg/engine driver (console.NewDriver, xboard.NewDriver)
// expects: text frames in become lines on the returned receive channel,
// and lines sent on the returned send channel become text frames out.
// The receive channel closes when the socket closes or ctx is cancelled;
// the send channel is never closed, and its writer stops on a write error
// or when ctx is cancelled.
func Serve(ctx context.Context, w http.ResponseWriter, r *http.Request) (<-chan string, chan<- string, error) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, nil, err
	}
	return bridge(ctx, conn), sink(ctx, conn), nil
}

// Dial connects to a websocket engine endpoint and returns the same
// bridged line channels as Serve, for driving a remote engine as a client.
func Dial(ctx context.Context, url string) (<-chan string, chan<- string, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, nil, err
	}
	return bridge(ctx, conn), sink(ctx, conn), nil
}

// bridge reads text frames off conn into a line channel, mirroring
// engine.ReadStdinLines but sourced from a websocket instead of os.Stdin.
func bridge(ctx context.Context, conn *websocket.Conn) <-chan string {
	ret := make(chan string, 100)
	go func() {
		defer close(ret)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				logw.Infof(ctx, "netbridge read closed: %v", err)
				return
			}
			logw.Debugf(ctx, "<< %v", string(data))

			select {
			case ret <- string(data):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ret
}

// sink writes lines as text frames to conn, mirroring
// engine.WriteStdoutLines but sinking to a websocket instead of os.Stdout.
func sink(ctx context.Context, conn *websocket.Conn) chan<- string {
	out := make(chan string, 100)
	go func() {
		for {
			select {
			case line, ok := <-out:
				if !ok {
					return
				}
				logw.Debugf(ctx, ">> %v", line)
				if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
					logw.Infof(ctx, "netbridge write closed: %v", err)
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
