package handlers

import (
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"warbler/auth"
	"warbler/models"
)

// page carries everything a view template may need. Unused fields stay at
// their zero value.
type page struct {
	Title    string
	Flashes  []auth.FlashMessage
	Error    string
	User     *models.User
	Profile  *models.User
	Users    []models.User
	Messages []models.Message
	Message  *models.Message
}

const layout = `<!DOCTYPE html>
<html>
<head><title>{{.Title}} | Warbler</title></head>
<body>
{{range .Flashes}}<div class="alert alert-{{.Category}}">{{.Message}}</div>
{{end}}{{if .Error}}<div class="alert alert-danger">{{.Error}}</div>
{{end}}{{template "content" .}}
</body>
</html>
`

// mustPage builds a full page template from the shared layout plus a
// view-specific content block.
func mustPage(content string) *template.Template {
	t := template.Must(template.New("layout").Parse(layout))
	return template.Must(t.Parse(content))
}

var (
	homeTmpl = mustPage(`{{define "content"}}<ul class="timeline">
{{range .Messages}}<li>@{{.User.Username}}: {{.Text}}</li>
{{end}}</ul>{{end}}`)

	homeAnonTmpl = mustPage(`{{define "content"}}<h1>What's Happening?</h1>
<p>New to Warbler? <a href="/signup">Sign up now</a> or <a href="/login">log in</a>.</p>{{end}}`)

	signupTmpl = mustPage(`{{define "content"}}<h2>Join Warbler today.</h2>
<form method="POST" action="/signup">
<input name="username" placeholder="Username">
<input name="email" placeholder="E-mail">
<input name="password" type="password" placeholder="Password">
<input name="image_url" placeholder="(Optional) Image URL">
<button type="submit">Sign me up!</button>
</form>{{end}}`)

	loginTmpl = mustPage(`{{define "content"}}<h2>Welcome back.</h2>
<form method="POST" action="/login">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Log in</button>
</form>{{end}}`)

	profileTmpl = mustPage(`{{define "content"}}<h4>@{{.Profile.Username}}</h4>
<p>{{.Profile.Bio}}</p>
<ul class="messages">
{{range .Messages}}<li><a href="/messages/{{.ID}}">{{.Text}}</a></li>
{{end}}</ul>{{end}}`)

	followListTmpl = mustPage(`{{define "content"}}<h4>@{{.Profile.Username}}</h4>
<ul class="follow-list">
{{range .Users}}<li><p>@{{.Username}}</p></li>
{{end}}</ul>{{end}}`)

	newMessageTmpl = mustPage(`{{define "content"}}<form method="POST" action="/messages/new">
<textarea name="text" placeholder="What's happening?"></textarea>
<button type="submit">Add my message!</button>
</form>{{end}}`)

	messageTmpl = mustPage(`{{define "content"}}<p>@{{.Message.User.Username}}</p>
<blockquote>{{.Message.Text}}</blockquote>{{end}}`)

	unauthorizedTmpl = mustPage(`{{define "content"}}{{end}}`)
)

func render(w http.ResponseWriter, status int, tmpl *template.Template, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logrus.Errorf("template render failed: %v", err)
	}
}

// renderUnauthorized answers a privacy-sensitive view for a request with
// no authenticated user: a 200 page carrying the notice and no data.
func renderUnauthorized(w http.ResponseWriter) {
	render(w, http.StatusOK, unauthorizedTmpl, page{
		Title:   "Warbler",
		Flashes: []auth.FlashMessage{{Category: "danger", Message: "Access unauthorized."}},
	})
}
