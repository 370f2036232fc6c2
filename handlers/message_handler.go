package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"warbler/auth"
	"warbler/models"
	"warbler/monitoring"
	"warbler/repositories"
)

// MessageHandler serves posting, viewing and deleting messages.
type MessageHandler struct {
	Messages repositories.MessageRepository
	Users    repositories.UserRepository
	Gate     *auth.Gate
}

func NewMessageHandler(messages repositories.MessageRepository, users repositories.UserRepository, gate *auth.Gate) *MessageHandler {
	return &MessageHandler{Messages: messages, Users: users, Gate: gate}
}

// New renders the message form on GET and inserts the message on POST.
// Anonymous requests are flashed and redirected without an insert.
func (h *MessageHandler) New(w http.ResponseWriter, r *http.Request) {
	user := currentUser(h.Gate, h.Users, r)
	if user == nil {
		h.Gate.Flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		render(w, http.StatusOK, newMessageTmpl, page{Title: "New message", User: user})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")
	if text == "" {
		render(w, http.StatusOK, newMessageTmpl, page{Title: "New message", User: user, Error: "This field is required."})
		return
	}
	if len(text) > models.MaxMessageLength {
		render(w, http.StatusOK, newMessageTmpl, page{
			Title: "New message",
			User:  user,
			Error: fmt.Sprintf("Field cannot be longer than %d characters.", models.MaxMessageLength),
		})
		return
	}

	message := &models.Message{Text: text, UserID: user.ID}
	if err := h.Messages.Create(message); err != nil {
		logrus.Errorf("message insert failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	monitoring.MessagesPosted.Inc()

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// Show renders a single message.
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	message, err := h.Messages.ByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	render(w, http.StatusOK, messageTmpl, page{
		Title:   "Message",
		Flashes: h.Gate.Flashes(w, r),
		Message: message,
	})
}

// Delete removes a message. Only the owner may delete; anyone else gets
// the unauthorized notice and the row is untouched.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	message, err := h.Messages.ByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	user := currentUser(h.Gate, h.Users, r)
	if user == nil || message.UserID != user.ID {
		h.Gate.Flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := h.Messages.Delete(message.ID); err != nil {
		logrus.Errorf("message delete failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	monitoring.MessagesDeleted.Inc()

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}
