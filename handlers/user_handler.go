package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"warbler/auth"
	"warbler/models"
	"warbler/monitoring"
	"warbler/repositories"
)

// UserHandler serves signup, login/logout, profiles and the follow graph.
type UserHandler struct {
	Users    repositories.UserRepository
	Messages repositories.MessageRepository
	Gate     *auth.Gate
}

func NewUserHandler(users repositories.UserRepository, messages repositories.MessageRepository, gate *auth.Gate) *UserHandler {
	return &UserHandler{Users: users, Messages: messages, Gate: gate}
}

// currentUser resolves the session's user id to a User, or nil.
func currentUser(gate *auth.Gate, users repositories.UserRepository, r *http.Request) *models.User {
	id, ok := gate.CurrentUserID(r)
	if !ok {
		return nil
	}
	user, err := users.ByID(id)
	if err != nil {
		return nil
	}
	return user
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// Home renders the timeline for a logged-in user, or the landing page.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	flashes := h.Gate.Flashes(w, r)

	user := currentUser(h.Gate, h.Users, r)
	if user == nil {
		render(w, http.StatusOK, homeAnonTmpl, page{Title: "Warbler", Flashes: flashes})
		return
	}

	messages, err := h.Messages.Timeline(user.ID, 100)
	if err != nil {
		logrus.Errorf("timeline query failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	render(w, http.StatusOK, homeTmpl, page{
		Title:    "Home",
		Flashes:  flashes,
		User:     user,
		Messages: messages,
	})
}

// Signup renders the signup form on GET and creates the account on POST.
// Duplicate username/email rolls back and re-renders the form.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, http.StatusOK, signupTmpl, page{Title: "Sign up", Flashes: h.Gate.Flashes(w, r)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	imageURL := r.PostFormValue("image_url")

	if username == "" || email == "" {
		render(w, http.StatusOK, signupTmpl, page{Title: "Sign up", Error: "This field is required."})
		return
	}
	if len(password) < 6 {
		render(w, http.StatusOK, signupTmpl, page{Title: "Sign up", Error: "Field must be at least 6 characters long."})
		return
	}

	user, err := h.Users.Signup(username, email, password, imageURL)
	if errors.Is(err, repositories.ErrDuplicateUser) {
		render(w, http.StatusOK, signupTmpl, page{Title: "Sign up", Error: "Username already taken"})
		return
	}
	if err != nil {
		logrus.Errorf("signup failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	if err := h.Gate.Login(w, r, user); err != nil {
		logrus.Errorf("session save failed: %v", err)
	}
	monitoring.SignupSuccess.Inc()
	logrus.Infof("new user signed up: %s", user)

	http.Redirect(w, r, "/", http.StatusFound)
}

// Login renders the login form on GET and authenticates on POST. Failure
// never reveals which field was wrong.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, http.StatusOK, loginTmpl, page{Title: "Log in", Flashes: h.Gate.Flashes(w, r)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Users.Authenticate(username, password)
	if errors.Is(err, repositories.ErrInvalidCredentials) {
		monitoring.LoginFailure.WithLabelValues("invalid credentials").Inc()
		render(w, http.StatusOK, loginTmpl, page{Title: "Log in", Error: "Invalid credentials."})
		return
	}
	if err != nil {
		logrus.Errorf("login failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	if err := h.Gate.Login(w, r, user); err != nil {
		logrus.Errorf("session save failed: %v", err)
	}
	monitoring.LoginSuccess.Inc()
	h.Gate.Flash(w, r, "success", fmt.Sprintf("Hello, %s!", user.Username))

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Logout(w, r); err != nil {
		logrus.Errorf("session save failed: %v", err)
	}
	h.Gate.Flash(w, r, "success", "You have successfully logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Profile shows a user's page with their messages.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if currentUser(h.Gate, h.Users, r) == nil {
		renderUnauthorized(w)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	profile, err := h.Users.ByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	messages, err := h.Messages.ByUser(profile.ID, 100)
	if err != nil {
		logrus.Errorf("message query failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	render(w, http.StatusOK, profileTmpl, page{
		Title:    "@" + profile.Username,
		Flashes:  h.Gate.Flashes(w, r),
		Profile:  profile,
		Messages: messages,
	})
}

// Followers lists the users following the target user. Requires a login;
// an anonymous request gets the unauthorized notice and no data.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "Followers", repositories.UserRepository.Followers)
}

// Following lists the users the target user follows.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "Following", repositories.UserRepository.Following)
}

func (h *UserHandler) followList(w http.ResponseWriter, r *http.Request, title string, list func(repositories.UserRepository, uint) ([]models.User, error)) {
	if currentUser(h.Gate, h.Users, r) == nil {
		renderUnauthorized(w)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	profile, err := h.Users.ByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	users, err := list(h.Users, profile.ID)
	if err != nil {
		logrus.Errorf("follow query failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	render(w, http.StatusOK, followListTmpl, page{
		Title:   title,
		Flashes: h.Gate.Flashes(w, r),
		Profile: profile,
		Users:   users,
	})
}

// Follow creates a follow edge from the current user to the target.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user := currentUser(h.Gate, h.Users, r)
	if user == nil {
		h.Gate.Flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if _, err := h.Users.ByID(id); errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	if err := h.Users.Follow(user.ID, id); err != nil {
		logrus.Errorf("follow failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	monitoring.FollowsCreated.Inc()

	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", user.ID), http.StatusFound)
}

// StopFollowing removes the follow edge from the current user to the target.
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	user := currentUser(h.Gate, h.Users, r)
	if user == nil {
		h.Gate.Flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Users.Unfollow(user.ID, id); err != nil {
		logrus.Errorf("unfollow failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", user.ID), http.StatusFound)
}

// Delete removes the current user's account with everything it owns.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(h.Gate, h.Users, r)
	if user == nil {
		h.Gate.Flash(w, r, "danger", "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := h.Gate.Logout(w, r); err != nil {
		logrus.Errorf("session save failed: %v", err)
	}
	if err := h.Users.Delete(user.ID); err != nil {
		logrus.Errorf("user delete failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	logrus.Infof("user deleted: %s", user)

	http.Redirect(w, r, "/signup", http.StatusFound)
}
