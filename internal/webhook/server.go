// ABOUTME: HTTP webhook transport mapping platform updates onto engine events
// ABOUTME: Always answers 200 for well-formed updates so the platform never re-delivers

package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/2389/warden/internal/command"
	"github.com/2389/warden/internal/dispatch"
	"github.com/2389/warden/internal/engine"
)

// secretHeader carries the shared token configured with the platform when
// the webhook was registered.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// AdminResolver reports whether a user currently administers a chat.
// It is consulted once per event; admin rights change between messages,
// so results must not be cached here.
type AdminResolver interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// StaticAdminResolver resolves admin status from a fixed set of user IDs.
// Deployments without platform credentials use this as the authority.
type StaticAdminResolver map[int64]bool

// IsAdmin reports membership in the static set, for any chat.
func (r StaticAdminResolver) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	return r[userID], nil
}

// Server decodes webhook updates and drives the engine, command surface
// and dispatcher.
type Server struct {
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	commands   *command.Handler
	actuator   dispatch.Actuator
	admins     AdminResolver
	secret     string
	logger     *slog.Logger
}

// NewServer wires the webhook transport. secret may be empty, disabling
// the shared-token check.
func NewServer(eng *engine.Engine, disp *dispatch.Dispatcher, commands *command.Handler, actuator dispatch.Actuator, admins AdminResolver, secret string) *Server {
	return &Server{
		engine:     eng,
		dispatcher: disp,
		commands:   commands,
		actuator:   actuator,
		admins:     admins,
		secret:     secret,
		logger:     slog.Default().With("component", "webhook"),
	}
}

// Routes registers the webhook and health endpoints on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", requireMethod(http.MethodPost, s.handleUpdate))
	mux.HandleFunc("/health", requireMethod(http.MethodGet, s.handleHealth))
}

// requireMethod enforces the HTTP method for a route; Go 1.21's ServeMux
// does not support method patterns in route strings.
func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get(secretHeader) != s.secret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "malformed update", http.StatusBadRequest)
		return
	}

	// Per-event failures are contained inside process: the platform must
	// see success or it re-delivers the same update indefinitely.
	s.process(r.Context(), &update)

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

// process maps one update onto engine events and dispatches the decision.
func (s *Server) process(ctx context.Context, update *Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if len(msg.NewChatMembers) > 0 {
		for _, member := range msg.NewChatMembers {
			if member.IsBot {
				continue
			}
			ev := engine.Event{
				ID:     uuid.NewString(),
				Kind:   engine.KindJoin,
				ChatID: msg.Chat.ID,
				UserID: member.ID,
				Now:    msg.Date,
			}
			s.engine.Evaluate(ctx, ev)
		}
		return
	}

	if msg.From == nil {
		return
	}

	isAdmin := s.resolveAdmin(ctx, msg.Chat.ID, msg.From.ID)

	// Admin commands short-circuit moderation entirely.
	if isAdmin {
		if reply := s.commands.Handle(ctx, msg.Chat.ID, msg.text()); reply != "" {
			if err := s.actuator.SendLog(ctx, msg.Chat.ID, reply); err != nil {
				s.logger.Warn("command reply failed", "chat_id", msg.Chat.ID, "error", err)
			}
			return
		}
	}

	ev := engine.Event{
		ID:          uuid.NewString(),
		Kind:        engine.KindMessage,
		ChatID:      msg.Chat.ID,
		MessageID:   msg.MessageID,
		UserID:      msg.From.ID,
		UserName:    msg.From.Username,
		IsAdmin:     isAdmin,
		Text:        msg.text(),
		HasForward:  msg.ForwardDate != 0,
		HasPhoto:    len(msg.Photo) > 0,
		HasVideo:    msg.Video != nil,
		HasDocument: msg.Document != nil,
		Now:         msg.Date,
	}

	actions := s.engine.Evaluate(ctx, ev)
	s.dispatcher.Dispatch(ctx, ev, actions)
}

// resolveAdmin consults the resolver, failing safe toward "not admin" so
// a resolver outage tightens moderation instead of opening it.
func (s *Server) resolveAdmin(ctx context.Context, chatID, userID int64) bool {
	isAdmin, err := s.admins.IsAdmin(ctx, chatID, userID)
	if err != nil {
		s.logger.Warn("admin resolution failed, treating as non-admin",
			"chat_id", chatID, "user_id", userID, "error", err)
		return false
	}
	return isAdmin
}
