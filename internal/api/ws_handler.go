package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/youruser/vcardapp/internal/api/middleware"
	"github.com/youruser/vcardapp/internal/card"
	"github.com/youruser/vcardapp/internal/editor"
	"github.com/youruser/vcardapp/internal/render"
	"github.com/youruser/vcardapp/internal/store"
)

const (
	wsMaxMessageSize = 1 << 20
	wsPingInterval   = 30 * time.Second
	wsWriteTimeout   = 5 * time.Second
)

// EditorHandler runs one editor.Session per websocket connection. Clients
// send action envelopes ({"type": ..., "payload": ...}) or one of the control
// types undo, redo, save, load, render and suggest. Every state change is
// answered with a "state" text frame followed by the rendered PNG as a
// binary frame.
type EditorHandler struct {
	renderer     *render.Renderer
	designs      store.DesignStore
	suggester    Suggester
	historyLimit int
	upgrader     websocket.Upgrader
}

func NewEditorHandler(renderer *render.Renderer, designs store.DesignStore, suggester Suggester, historyLimit int, allowedOrigins []string) *EditorHandler {
	h := &EditorHandler{
		renderer:     renderer,
		designs:      designs,
		suggester:    suggester,
		historyLimit: historyLimit,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

type wsReply struct {
	Type      string        `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	State     *editor.State `json:"state,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type suggestPayload struct {
	Prompt string `json:"prompt"`
}

func (h *EditorHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.LoggerFromContext(c).Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := editor.NewSession(card.Default(), h.renderer, editor.SessionOptions{
		HistoryLimit: h.historyLimit,
		Store:        h.designs,
		Logger:       middleware.LoggerFromContext(c),
	})
	middleware.AddLogAttrs(c, slog.String("session_id", sess.ID))
	log := middleware.LoggerFromContext(c).With(slog.String("session_id", sess.ID))
	log.Info("editor session opened")

	in := make(chan []byte)
	errCh := make(chan error, 1)
	go readLoop(ctx, conn, in, errCh)

	if err := h.sendState(ctx, conn, sess); err != nil {
		log.Info("editor session closed", slog.Any("error", err))
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			log.Info("editor session closed", slog.Any("error", err))
			return
		case msg := <-in:
			if err := h.handleMessage(ctx, conn, sess, msg); err != nil {
				log.Info("editor session closed", slog.Any("error", err))
				writeClose(conn, websocket.CloseInternalServerErr, "write failed")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				log.Info("editor session closed", slog.Any("error", fmt.Errorf("write ping: %w", err)))
				return
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, in chan<- []byte, errCh chan<- error) {
	for {
		kind, message, err := conn.ReadMessage()
		if err != nil {
			errCh <- fmt.Errorf("read message: %w", err)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		select {
		case in <- message:
		case <-ctx.Done():
			return
		}
	}
}

// handleMessage applies one client message. Only write failures are
// returned; rejected commands are reported to the client.
func (h *EditorHandler) handleMessage(ctx context.Context, conn *websocket.Conn, sess *editor.Session, msg []byte) error {
	var env editor.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return h.sendError(conn, sess, fmt.Errorf("%w: %v", editor.ErrInvalidAction, err))
	}

	var err error
	switch env.Type {
	case "undo":
		_, err = sess.Undo()
	case "redo":
		_, err = sess.Redo()
	case "render":
	case "state":
		return h.writeJSON(conn, wsReply{Type: "state", SessionID: sess.ID, State: stateRef(sess.State())})
	case "save":
		if err := sess.Save(ctx); err != nil {
			return h.sendError(conn, sess, err)
		}
		return h.writeJSON(conn, wsReply{Type: "saved", SessionID: sess.ID})
	case "load":
		_, err = sess.Load(ctx)
	case "suggest":
		err = h.suggest(ctx, sess, env.Payload)
	default:
		var a editor.Action
		a, err = env.Action()
		if err == nil {
			_, err = sess.Dispatch(a)
		}
	}
	if err != nil {
		return h.sendError(conn, sess, err)
	}
	return h.sendState(ctx, conn, sess)
}

func (h *EditorHandler) suggest(ctx context.Context, sess *editor.Session, payload json.RawMessage) error {
	if h.suggester == nil {
		return errors.New("ai suggestions are not configured")
	}
	var p suggestPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("%w: %v", editor.ErrInvalidAction, err)
	}
	s, err := h.suggester.Suggest(ctx, p.Prompt)
	if err != nil {
		return err
	}
	_, err = sess.Dispatch(editor.ApplySuggestion{Suggestion: s})
	return err
}

func (h *EditorHandler) sendState(ctx context.Context, conn *websocket.Conn, sess *editor.Session) error {
	if err := h.writeJSON(conn, wsReply{Type: "state", SessionID: sess.ID, State: stateRef(sess.State())}); err != nil {
		return err
	}
	png, err := observeRender(func() ([]byte, error) { return sess.RenderPNG(ctx) })
	if err != nil {
		return h.writeJSON(conn, wsReply{Type: "error", SessionID: sess.ID, Error: "render failed: " + err.Error()})
	}
	return h.write(conn, websocket.BinaryMessage, png)
}

func (h *EditorHandler) sendError(conn *websocket.Conn, sess *editor.Session, err error) error {
	msg := err.Error()
	if errors.Is(err, store.ErrNotFound) {
		msg = "no saved design"
	}
	return h.writeJSON(conn, wsReply{Type: "error", SessionID: sess.ID, State: stateRef(sess.State()), Error: msg})
}

func (h *EditorHandler) writeJSON(conn *websocket.Conn, v wsReply) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	return h.write(conn, websocket.TextMessage, b)
}

func (h *EditorHandler) write(conn *websocket.Conn, kind int, b []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	if err := conn.WriteMessage(kind, b); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func stateRef(s editor.State) *editor.State { return &s }

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(wsWriteTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
