package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"practice-interview/internal/interview"
	"practice-interview/internal/interviewer"
	"practice-interview/internal/session"
	"practice-interview/internal/speech"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = 50 * time.Second
	writeWait    = 10 * time.Second
	maxReadBytes = 64 * 1024
)

// Входящие сообщения клиента
const (
	msgHello        = "hello"
	msgStart        = "start"
	msgStop         = "stop"
	msgReset        = "reset"
	msgMute         = "mute"
	msgSpeakDone    = "speak.done"
	msgSpeakError   = "speak.error"
	msgSpeechResult = "speech.result"
	msgSpeechError  = "speech.error"
	msgSpeechEnd    = "speech.end"
)

// Исходящие сообщения, помимо команд речи
const (
	msgState     = "state"
	msgError     = "error"
	msgCompleted = "completed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type clientMessage struct {
	Type         string `json:"type"`
	Round        string `json:"round,omitempty"`
	Muted        bool   `json:"muted,omitempty"`
	ID           int64  `json:"id,omitempty"`
	Error        string `json:"error,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	Final        bool   `json:"final,omitempty"`
	SpeechInput  bool   `json:"speechInput,omitempty"`
	SpeechOutput bool   `json:"speechOutput,omitempty"`
}

type serverMessage struct {
	Type     string                    `json:"type"`
	Snapshot *session.Snapshot         `json:"snapshot,omitempty"`
	Message  string                    `json:"message,omitempty"`
	Summary  *interview.SessionSummary `json:"summary,omitempty"`
}

// practiceConn одно соединение браузера: свой движок речи и своя сессия
type practiceConn struct {
	id       string
	conn     *websocket.Conn
	writeMu  sync.Mutex
	identity Identity

	engine     *speech.RemoteEngine
	controller *session.Controller
	limiter    *RateLimiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (h *handler) practiceSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pc := &practiceConn{
		id:       uuid.New().String(),
		conn:     conn,
		identity: identityFrom(c),
		limiter:  h.limiter,
		ctx:      ctx,
		cancel:   cancel,
	}

	cfg := h.deps.Practice
	pc.engine = speech.NewRemoteEngine(pc.sendCommand, cfg.SpeakTimeout())
	adapter := speech.NewService(pc.engine.Synthesizer(), pc.engine.Recognizer(),
		speech.WithLanguage(cfg.Speech.Language),
		speech.WithRate(cfg.Speech.Rate),
		speech.WithGraceExtra(cfg.GraceExtra()),
	)

	var sink session.Sink
	if h.deps.Store != nil {
		sink = h.deps.Store
	}
	pc.controller = session.NewController(h.deps.Questioner, adapter, sink, h.deps.Metrics, session.Options{
		QuestionCount:  cfg.GetQuestionCount(),
		SilenceTimeout: cfg.SilenceTimeout(),
		MutedAskDelay:  cfg.MutedAskDelay(),
		FeedbackDelay:  cfg.FeedbackDelay(),
	})
	pc.controller.OnChange(func(s session.Snapshot) {
		pc.write(serverMessage{Type: msgState, Snapshot: &s})
	})

	log.Printf("WebSocket %s: подключен %s", pc.id, pc.identity.StudentID)
	pc.serve()
}

func (pc *practiceConn) serve() {
	defer func() {
		pc.cancel()
		pc.controller.Stop()
		pc.engine.Close()
		pc.wg.Wait()
		pc.conn.Close()
		log.Printf("WebSocket %s: отключен", pc.id)
	}()

	pc.wg.Add(1)
	go pc.pingLoop()

	pc.conn.SetReadLimit(maxReadBytes)
	pc.conn.SetReadDeadline(time.Now().Add(pongWait))
	pc.conn.SetPongHandler(func(string) error {
		pc.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := pc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket %s: %v", pc.id, err)
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			pc.writeError("Invalid message format")
			continue
		}
		pc.handle(msg)
	}
}

func (pc *practiceConn) handle(msg clientMessage) {
	switch msg.Type {
	case msgHello:
		pc.engine.SetCapabilities(msg.SpeechInput, msg.SpeechOutput)
		snap := pc.controller.Snapshot()
		pc.write(serverMessage{Type: msgState, Snapshot: &snap})
	case msgStart:
		pc.start(msg.Round)
	case msgStop:
		pc.controller.Stop()
	case msgReset:
		if err := pc.controller.Reset(); err != nil {
			pc.writeError("Nothing to reset: the session is not completed")
		}
	case msgMute:
		pc.controller.SetMuted(msg.Muted)
	case msgSpeakDone:
		pc.engine.SpeakDone(msg.ID, "")
	case msgSpeakError:
		errMsg := msg.Error
		if errMsg == "" {
			errMsg = "synthesis failed"
		}
		pc.engine.SpeakDone(msg.ID, errMsg)
	case msgSpeechResult:
		pc.engine.PushResult(speech.Result{Transcript: msg.Transcript, Final: msg.Final})
	case msgSpeechError:
		pc.engine.PushResult(speech.Result{Err: msg.Error})
	case msgSpeechEnd:
		pc.engine.EndRecognition()
	default:
		pc.writeError("Unknown message type: " + msg.Type)
	}
}

func (pc *practiceConn) start(roundName string) {
	round, err := interview.ParseRound(roundName)
	if err != nil {
		pc.writeError("Unknown interview round")
		return
	}
	if pc.controller.State() != session.StateIdle {
		pc.writeError("A practice session is already in progress")
		return
	}
	if !pc.limiter.IsAllowed(pc.identity.StudentID) {
		pc.writeError("Too many practice sessions started. Please wait a minute.")
		return
	}

	pc.wg.Add(1)
	go func() {
		defer pc.wg.Done()
		summary, err := pc.controller.Start(pc.ctx, round, pc.identity.StudentID, pc.identity.Name)
		if err != nil {
			pc.reportStartError(err)
			return
		}
		pc.write(serverMessage{Type: msgCompleted, Summary: summary})
	}()
}

func (pc *practiceConn) reportStartError(err error) {
	var genErr *interviewer.GenerationError
	switch {
	case errors.Is(err, session.ErrStopped):
	case errors.As(err, &genErr):
		pc.writeError("Failed to generate questions. Please try again.")
	case errors.Is(err, session.ErrSpeechInputUnsupported):
		pc.writeError("Speech recognition is not supported in this browser.")
	case errors.Is(err, session.ErrSessionActive):
		pc.writeError("A practice session is already in progress")
	default:
		log.Printf("WebSocket %s: сессия: %v", pc.id, err)
		pc.writeError("The practice session failed unexpectedly")
	}
}

func (pc *practiceConn) pingLoop() {
	defer pc.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-pc.ctx.Done():
			return
		case <-ticker.C:
			pc.writeMu.Lock()
			pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := pc.conn.WriteMessage(websocket.PingMessage, nil)
			pc.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (pc *practiceConn) writeJSON(v interface{}) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.conn.WriteJSON(v)
}

func (pc *practiceConn) write(msg serverMessage) {
	if err := pc.writeJSON(msg); err != nil {
		log.Printf("WebSocket %s: запись %s: %v", pc.id, msg.Type, err)
	}
}

func (pc *practiceConn) writeError(message string) {
	pc.write(serverMessage{Type: msgError, Message: message})
}

func (pc *practiceConn) sendCommand(cmd speech.Command) error {
	return pc.writeJSON(cmd)
}
