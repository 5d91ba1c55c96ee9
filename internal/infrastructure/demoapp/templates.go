package demoapp

import "html/template"

// Form fields are wrapped in elements carrying the test id, the way component
// libraries render them, so locators descend into the wrapper to reach the input.
const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} - Rooms</title></head>
<body>
<main>
<h1>{{.Title}}</h1>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const loginPage = `{{define "content"}}
<form method="post" action="/login">
  {{if .Error}}<p role="alert" data-testid="login-error">{{.Error}}</p>{{end}}
  <div data-testid="email-input"><label>Email <input type="email" name="email" value="{{.Email}}" autocomplete="username"></label></div>
  <div data-testid="password-input"><label>Password <input type="password" name="password" autocomplete="current-password"></label></div>
  <button type="submit" data-testid="login-button">Sign in</button>
</form>
<p><a href="/register" data-testid="register-link">Create an account</a></p>
{{end}}`

const registerPage = `{{define "content"}}
<form method="post" action="/register">
  {{if .Mismatch}}<p role="alert" data-testid="password-mismatch-error">Passwords do not match</p>{{end}}
  {{if .Duplicate}}<p role="alert" data-testid="duplicate-email-error">An account with this email already exists</p>{{end}}
  {{if .Error}}<p role="alert" data-testid="form-error">{{.Error}}</p>{{end}}
  <div data-testid="email-input"><label>Email <input type="email" name="email" value="{{.Email}}" autocomplete="username"></label></div>
  <div data-testid="password-input"><label>Password <input type="password" name="password" autocomplete="new-password"></label></div>
  <div data-testid="confirm-password-input"><label>Confirm password <input type="password" name="confirmPassword" autocomplete="new-password"></label></div>
  <button type="submit" data-testid="register-button">Register</button>
</form>
<p><a href="/login" data-testid="login-link">Already registered? Sign in</a></p>
{{end}}`

const roomsPage = `{{define "content"}}
<nav>
  <button type="button" data-testid="my-rooms-button">My Rooms</button>
  <form method="post" action="/logout"><button type="submit" data-testid="logout-button">Logout</button></form>
</nav>
<p data-testid="welcome">Signed in as {{.Email}}</p>
<ul data-testid="room-list"></ul>
{{end}}`

type pageData struct {
	Title     string
	Email     string
	Error     string
	Mismatch  bool
	Duplicate bool
}

var (
	loginTmpl    = page(loginPage)
	registerTmpl = page(registerPage)
	roomsTmpl    = page(roomsPage)
)

func page(content string) *template.Template {
	return template.Must(template.Must(template.New("layout").Parse(layout)).Parse(content))
}
