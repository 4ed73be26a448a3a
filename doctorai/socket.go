package doctorai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"harvesthub/middleware"
	"harvesthub/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	answerTimeout  = 60 * time.Second
	maxInboundSize = 8 << 10
)

type inbound struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type outbound struct {
	ID    string `json:"id"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChatSocket serves the advisor over a websocket. Browsers cannot set headers
// on the upgrade request, so the bearer token travels in the "token" query
// parameter.
type ChatSocket struct {
	advisor    *Advisor
	gate       *middleware.Gate
	log        *zap.Logger
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
}

func NewChatSocket(advisor *Advisor, gate *middleware.Gate, log *zap.Logger) *ChatSocket {
	return &ChatSocket{
		advisor:    advisor,
		gate:       gate,
		log:        log,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		pingPeriod: pingPeriod,
	}
}

func (s *ChatSocket) HandleWebSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := s.gate.Verify(r.URL.Query().Get("token"))
	if err != nil {
		utils.RespondWithAppError(w, s.log, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	userID := caller.OwnerID()
	s.log.Info("ws connected", zap.String("userId", userID))
	defer func() {
		conn.Close()
		s.log.Info("ws disconnected", zap.String("userId", userID))
	}()

	conn.SetReadLimit(maxInboundSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	out := make(chan outbound, 8)
	done := make(chan struct{})
	go s.writeLoop(conn, out, done)
	defer func() {
		close(out)
		<-done
	}()

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("ws read", zap.Error(err))
			}
			return
		}
		out <- s.answer(r.Context(), userID, in)
	}
}

func (s *ChatSocket) answer(parent context.Context, userID string, in inbound) outbound {
	msg := outbound{ID: uuid.NewString()}
	ctx, cancel := context.WithTimeout(parent, answerTimeout)
	defer cancel()

	reply, err := s.advisor.Answer(ctx, in.Message, in.Language)
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &ve):
		msg.Error = ve.Message
	case errors.Is(err, ErrNotConfigured):
		msg.Error = ErrNotConfigured.Error()
	case err != nil:
		s.log.Error("ws answer failed", zap.Error(err), zap.String("userId", userID))
		msg.Error = "Error generating AI response"
	default:
		msg.Reply = reply
	}
	return msg
}

// writeLoop is the only writer on conn. After a write failure it closes the
// connection so the read loop exits, and drains out until it is closed.
func (s *ChatSocket) writeLoop(conn *websocket.Conn, out <-chan outbound, done chan<- struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
	}()
	fail := func() {
		conn.Close()
		for range out {
		}
	}
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				fail()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				fail()
				return
			}
		}
	}
}
