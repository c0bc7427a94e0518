// Package intake drives the conversational bill-intake flow: one document
// upload, then typed (or transcribed) chat turns until the readiness policy
// fires. The transcript is append-only with monotonically increasing ids;
// failed backend calls surface as a single diagnostic turn and never freeze
// or reorder the conversation.
package intake

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/errors"
	"github.com/salus-health/salus/internal/logging"
	"github.com/salus-health/salus/internal/session"
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Upload(ctx context.Context, filename string, content io.Reader, passkeyID string) (*session.BillData, error)
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

const greeting = "Hi, I'm Salus. Upload a medical bill and I'll walk you through what your insurance and government programs can cover."

// Controller owns one intake conversation.
type Controller struct {
	mu         sync.Mutex
	backend    Backend
	logger     *logging.Logger
	policy     ReadinessPolicy
	transcribe Transcriber

	policyID  string
	passkeyID string

	transcript []session.ChatMessage
	nextID     int
	bill       *session.BillData
	ready      bool
	inFlight   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithReadinessPolicy overrides the default keyword policy.
func WithReadinessPolicy(p ReadinessPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithTranscriber installs a voice transcription backend.
func WithTranscriber(t Transcriber) Option {
	return func(c *Controller) { c.transcribe = t }
}

// NewController creates a controller for one session. The transcript opens
// with the assistant greeting.
func NewController(backend Backend, policyID, passkeyID string, logger *logging.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := &Controller{
		backend:    backend,
		logger:     logger.WithPolicy(policyID),
		policy:     DefaultReadinessPolicy(),
		transcribe: UnavailableTranscriber{},
		policyID:   policyID,
		passkeyID:  passkeyID,
		nextID:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.append(session.RoleAssistant, greeting)
	return c
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []session.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]session.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// DocumentPresent reports whether a bill has been uploaded this session.
func (c *Controller) DocumentPresent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bill != nil
}

// Bill returns the extracted bill data, or nil before upload.
func (c *Controller) Bill() *session.BillData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bill
}

// Ready reports whether the readiness policy has fired. Sticky: once ready,
// always ready for this session.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// InFlight reports whether a chat turn is awaiting its reply. Input is
// disabled, not queued, while true.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// UploadDocument sends the bill for extraction, then forwards a synthesized
// description of the extracted fields as a user turn so the assistant's
// confirmation reply comes from the reasoning backend. Exactly one document
// per session: a second upload is rejected. On extraction failure the
// transcript is left untouched so the user can simply retry.
func (c *Controller) UploadDocument(ctx context.Context, filename string, content io.Reader) (*session.BillData, error) {
	c.mu.Lock()
	if c.bill != nil {
		c.mu.Unlock()
		return nil, errors.NewIntakeError("only one document per session", errors.ErrDocumentPresent).WithPolicyID(c.policyID)
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, errors.NewIntakeError("upload blocked", errors.ErrRequestInFlight).WithPolicyID(c.policyID)
	}
	c.inFlight = true
	c.mu.Unlock()

	bill, err := c.backend.Upload(ctx, filename, content, c.passkeyID)
	if err != nil {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
		c.logger.Warn("document upload failed", "filename", filename, "error", err)
		return nil, err
	}

	description := describeExtraction(filename, bill)

	c.mu.Lock()
	c.bill = bill
	c.append(session.RoleUser, description)
	history := c.historyLocked()
	c.mu.Unlock()
	c.logger.Info("document extracted", "filename", filename, "total", bill.Total)

	resp, chatErr := c.backend.Chat(ctx, api.ChatRequest{
		PolicyID:  c.policyID,
		Message:   description,
		History:   history,
		PasskeyID: c.passkeyID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if chatErr != nil {
		c.logger.Warn("extraction confirmation turn failed", "error", chatErr)
		c.append(session.RoleAssistant, "I couldn't reach the coverage service just now. Your bill is uploaded, so just continue when you're ready.")
		return bill, nil
	}

	c.append(session.RoleAssistant, resp.Response)
	if !c.ready && c.policy.Ready(Signal{
		AssistantText:    resp.Response,
		DocumentPresent:  true,
		AnalysisComplete: resp.AnalysisComplete,
	}) {
		c.ready = true
		c.logger.Info("session ready for analysis")
	}
	return bill, nil
}

// SendMessage exchanges one typed chat turn. The user turn is appended
// before the backend call; a failed call appends a diagnostic assistant turn
// instead of removing it.
func (c *Controller) SendMessage(ctx context.Context, text string) (*session.ChatMessage, error) {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	switch {
	case trimmed == "":
		c.mu.Unlock()
		return nil, errors.NewIntakeError("message is empty", errors.ErrEmptyMessage).WithPolicyID(c.policyID)
	case c.bill == nil:
		c.mu.Unlock()
		return nil, errors.NewIntakeError("upload a document first", errors.ErrNoDocument).WithPolicyID(c.policyID)
	case c.inFlight:
		c.mu.Unlock()
		return nil, errors.NewIntakeError("previous turn still in flight", errors.ErrRequestInFlight).WithPolicyID(c.policyID)
	}
	c.inFlight = true
	c.append(session.RoleUser, trimmed)
	history := c.historyLocked()
	c.mu.Unlock()

	resp, err := c.backend.Chat(ctx, api.ChatRequest{
		PolicyID:  c.policyID,
		Message:   trimmed,
		History:   history,
		PasskeyID: c.passkeyID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.logger.Warn("chat turn failed", "error", err)
		reply := c.append(session.RoleAssistant, "I couldn't reach the coverage service just now. Your message is saved, please try again.")
		return &reply, err
	}

	reply := c.append(session.RoleAssistant, resp.Response)
	if !c.ready && c.policy.Ready(Signal{
		UserText:         trimmed,
		AssistantText:    resp.Response,
		DocumentPresent:  c.bill != nil,
		AnalysisComplete: resp.AnalysisComplete,
	}) {
		c.ready = true
		c.logger.Info("session ready for analysis")
	}
	return &reply, nil
}

// SyncStatus reconciles the document-present and readiness flags with what
// the backend already holds for this session, e.g. after a client restart.
// It only ever raises flags, never clears them.
func (c *Controller) SyncStatus(status *api.StatusResponse) {
	if status == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if status.HasUploadedFile && c.bill == nil {
		c.bill = &session.BillData{Filename: status.UploadedFile}
		c.logger.Info("document restored from backend status", "filename", status.UploadedFile)
	}
	if status.ReadyForAnalysis && !c.ready {
		c.ready = true
	}
}

// SendVoice transcribes audio and submits the text as if typed. When no
// transcriber is available the typed path is unaffected.
func (c *Controller) SendVoice(ctx context.Context, audio io.Reader) (*session.ChatMessage, error) {
	text, err := c.transcribe.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	return c.SendMessage(ctx, text)
}

// VoiceAvailable reports whether the voice entry path can be offered.
func (c *Controller) VoiceAvailable() bool {
	return c.transcribe.Available()
}

// append adds a turn and returns it. Caller must hold mu (or be the
// constructor, which runs before the controller escapes).
func (c *Controller) append(role session.Role, text string) session.ChatMessage {
	msg := session.ChatMessage{
		ID:        c.nextID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	c.nextID++
	c.transcript = append(c.transcript, msg)
	return msg
}

// historyLocked renders the transcript in the backend's history shape,
// excluding the just-appended user turn (it travels as the message field).
func (c *Controller) historyLocked() []api.HistoryItem {
	n := len(c.transcript) - 1
	items := make([]api.HistoryItem, 0, n)
	for _, msg := range c.transcript[:n] {
		items = append(items, api.HistoryItem{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}
	return items
}

// describeExtraction synthesizes the user turn describing what the
// extractor found. Each field is mentioned only when present.
func describeExtraction(filename string, b *session.BillData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I uploaded %s.", filename)
	if b.Provider != "" {
		fmt.Fprintf(&sb, " It's from %s.", b.Provider)
	}
	if len(b.Services) > 0 {
		fmt.Fprintf(&sb, " It covers %s.", strings.Join(b.Services, ", "))
	} else if b.Service != "" {
		fmt.Fprintf(&sb, " It covers %s.", b.Service)
	}
	if b.Date != "" {
		fmt.Fprintf(&sb, " It's dated %s.", b.Date)
	}
	if b.Total > 0 {
		fmt.Fprintf(&sb, " The total comes to $%.2f.", b.Total)
	}
	sb.WriteString(" Can you confirm the details?")
	return sb.String()
}
