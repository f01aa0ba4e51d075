package echoapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pgg/classroom/core"
	"github.com/pgg/classroom/core/class"
)

const (
	eventBufferSize = 16
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 512
)

// events streams class.Event's to a websocket client, starting with a snapshot of the registry.
// Clients are not expected to send anything but control frames.
func (api *classApi) events(ctx echo.Context) error {
	conn, err := api.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil // the upgrader already replied with an HTTP error
	}
	defer conn.Close()

	reqID := ctx.Response().Header().Get(echo.HeaderXRequestID)

	// subscribe before taking the snapshot so that no mutation goes unnoticed
	events := make(chan class.Event, eventBufferSize)
	unsubscribe := api.svc.Subscribe(func(evt class.Event) {
		select {
		case events <- evt:
		default:
			api.logger.Warn("Dropping class event for slow listener", core.Fields{"request_id": reqID, "kind": evt.Kind})
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go readPump(conn, closed)

	snap := api.svc.Snapshot()
	if err = writeEvent(conn, snap); err != nil {
		return nil
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-events:
			if evt.Seq <= snap.Seq {
				continue // already part of the snapshot
			}
			if err = writeEvent(conn, evt); err != nil {
				return nil
			}
		case <-ticker.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-api.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		}
	}
}

func writeEvent(conn *websocket.Conn, evt class.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(evt)
}

// readPump handles control frames and closes `closed` once the client is gone.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// checkOrigin accepts requests without Origin, from the allowed origins, or from the same host.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}
