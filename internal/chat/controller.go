// Package chat holds the state behind the chat screen: the transcript, the
// server driven stage and the document flags of the last reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bz888/loanchat/internal/api"
	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/session"
)

const Greeting = "Hello! Welcome to our loan application service. How can I assist you today?"

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a request is already in flight")
	ErrNoSession    = errors.New("no chat session yet, send a message first")
)

// Backend is the part of the API client the chat screen uses.
type Backend interface {
	SendMessage(ctx context.Context, text string) (*domain.ChatReply, error)
	UploadSalarySlip(ctx context.Context, doc domain.Document) (*domain.ChatReply, error)
	UploadPan(ctx context.Context, doc domain.Document) (*domain.ChatReply, error)
	UploadAadhaar(ctx context.Context, doc domain.Document) (*domain.ChatReply, error)
}

type Status string

const (
	StatusIdle      Status = "idle"
	StatusSending   Status = "sending"
	StatusUploading Status = "uploading"
)

// State is a copy of the controller state for rendering.
type State struct {
	Messages  []domain.Message
	Stage     domain.Stage
	Awaiting  domain.Awaiting
	Sending   bool
	Uploading bool
}

func (s State) Status() Status {
	switch {
	case s.Sending:
		return StatusSending
	case s.Uploading:
		return StatusUploading
	}
	return StatusIdle
}

// LastFile is the most recent file reference the bot attached.
func (s State) LastFile() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].File != "" {
			return s.Messages[i].File
		}
	}
	return ""
}

type Controller struct {
	backend Backend
	store   session.Store

	mu        sync.Mutex
	messages  []domain.Message
	stage     domain.Stage
	awaiting  domain.Awaiting
	sending   bool
	uploading bool
	onChange  func(State)

	localLogger *logger.Logger
}

func NewController(backend Backend, store session.Store) *Controller {
	return &Controller{
		backend:     backend,
		store:       store,
		messages:    []domain.Message{{Sender: domain.SenderBot, Text: Greeting}},
		stage:       domain.StageGreeting,
		localLogger: logger.NewLogger("chat"),
	}
}

// OnChange registers fn to be called after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	msgs := make([]domain.Message, len(c.messages))
	copy(msgs, c.messages)
	return State{
		Messages:  msgs,
		Stage:     c.stage,
		Awaiting:  c.awaiting,
		Sending:   c.sending,
		Uploading: c.uploading,
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	st := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Send posts text to the backend. Blank input and a send already in flight
// are rejected without touching the transcript.
func (c *Controller) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	c.messages = append(c.messages, domain.Message{Sender: domain.SenderUser, Text: text})
	c.mu.Unlock()
	c.notify()

	reply, err := c.backend.SendMessage(ctx, text)

	c.mu.Lock()
	c.sending = false
	if err != nil {
		c.appendFailureLocked(err)
	} else {
		c.applyReplyLocked(reply)
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.localLogger.Error("Failed to send message:", err)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Upload sends doc to the endpoint matching the current stage.
func (c *Controller) Upload(ctx context.Context, doc domain.Document) error {
	c.mu.Lock()
	stage := c.stage
	c.mu.Unlock()

	upload, err := UploadHandlerFor(c.backend, stage)
	if err != nil {
		return c.failLocally(err)
	}

	sessionID, err := c.store.SessionID(ctx)
	if err != nil {
		return c.failLocally(fmt.Errorf("read session: %w", err))
	}
	if sessionID == "" {
		return c.failLocally(ErrNoSession)
	}

	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.uploading = true
	c.mu.Unlock()
	c.notify()

	reply, err := upload(ctx, doc)

	c.mu.Lock()
	c.uploading = false
	if err != nil {
		c.appendFailureLocked(err)
	} else {
		c.messages = append(c.messages, domain.Message{Sender: domain.SenderUser, Text: "📎 Uploaded " + doc.Name})
		c.applyReplyLocked(reply)
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.localLogger.Error("Failed to upload document:", err)
		return fmt.Errorf("upload %s: %w", doc.Name, err)
	}
	return nil
}

// Reset starts a fresh conversation. The cached customer is kept.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.store.ClearSessionID(ctx); err != nil {
		return fmt.Errorf("clear session id: %w", err)
	}
	c.mu.Lock()
	c.messages = []domain.Message{{Sender: domain.SenderBot, Text: Greeting}}
	c.stage = domain.StageGreeting
	c.awaiting = domain.Awaiting{}
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) failLocally(err error) error {
	c.mu.Lock()
	c.appendFailureLocked(err)
	c.mu.Unlock()
	c.notify()
	c.localLogger.Warn("Upload rejected locally:", err)
	return err
}

func (c *Controller) applyReplyLocked(reply *domain.ChatReply) {
	c.messages = append(c.messages, domain.Message{
		Sender: domain.SenderBot,
		Text:   reply.Text(),
		File:   reply.File,
	})
	if !reply.Stage.Known() {
		c.localLogger.Warn("Backend sent unknown stage:", string(reply.Stage))
	}
	c.stage = reply.Stage
	c.awaiting = reply.Flags()
}

func (c *Controller) appendFailureLocked(err error) {
	c.messages = append(c.messages, domain.Message{
		Sender: domain.SenderBot,
		Text:   "⚠️ " + ErrorText(err),
		Failed: true,
	})
}

// ErrorText turns err into the sentence shown in a chat bubble.
func ErrorText(err error) string {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrNoSession):
		return "No chat session yet. Send a message before uploading documents."
	case errors.Is(err, ErrNoUploadHandler):
		return "There is nothing to upload at this step. " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	default:
		return "Could not reach the server: " + err.Error()
	}
}
