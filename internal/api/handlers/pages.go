package handlers

import (
	"fmt"
	"net/http"
)

// PagesHandler serves the minimal page shells the route guards gate. The
// real UI lives in the browser client; these exist so the server can
// enforce authentication state on page navigation.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Member Portal", `<a href="/auth/login">Log in</a> or <a href="/auth/register">register</a>.`)
}

func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Log in", `<form method="post" action="/api/auth/login"></form>`)
}

func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Register", `<form method="post" action="/api/auth/register"></form>`)
}

func (h *PagesHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Your profile", `<div id="profile"></div>`)
}

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1>%s</body></html>", title, title, body)
}
