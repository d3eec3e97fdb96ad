// Package resetweb serves the self-service password-reset pages. Unlike the
// JSON API this flow renders HTML and reports every validation failure
// inline on the form with a 200 status.
package resetweb

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/transport"
	"github.com/frahmantamala/user-backoffice/internal/users"
	"github.com/frahmantamala/user-backoffice/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

type ResetServiceAPI interface {
	ResetPassword(ctx context.Context, form users.ResetPasswordForm) error
}

type Handler struct {
	*transport.BaseHandler
	Service ResetServiceAPI

	resetTmpl *template.Template
	loginTmpl *template.Template
}

type resetFormData struct {
	Token string
	Error string
}

type loginPageData struct {
	Success string
}

func NewHandler(service ResetServiceAPI) (*Handler, error) {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}

	resetTmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/reset_form.html")
	if err != nil {
		return nil, err
	}
	loginTmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		resetTmpl:   resetTmpl,
		loginTmpl:   loginTmpl,
	}, nil
}

// ShowResetForm renders the form with whatever token arrived in the query.
func (h *Handler) ShowResetForm(w http.ResponseWriter, r *http.Request) {
	h.renderResetForm(w, resetFormData{Token: r.URL.Query().Get("token")})
}

// HandleReset runs the redemption pipeline and renders exactly once: the
// form again on any failure, the login page with a success message
// otherwise.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("HandleReset: malformed form body", "error", err)
		h.renderResetForm(w, resetFormData{Error: "something went wrong, please try again"})
		return
	}

	form := users.ResetPasswordForm{
		Token:           r.PostFormValue("token"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	if err := h.Service.ResetPassword(r.Context(), form); err != nil {
		message := "something went wrong, please try again"
		if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
			message = appErr.GetDetailedMessage()
		} else {
			h.Logger.Error("HandleReset: unexpected failure", "error", err)
		}
		h.renderResetForm(w, resetFormData{Token: form.Token, Error: message})
		return
	}

	h.renderLogin(w, loginPageData{Success: "your password has been updated, you can sign in now"})
}

func (h *Handler) renderResetForm(w http.ResponseWriter, data resetFormData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.resetTmpl.ExecuteTemplate(w, "layout", data); err != nil {
		h.Logger.Error("failed to render reset form", "error", err)
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, data loginPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.loginTmpl.ExecuteTemplate(w, "layout", data); err != nil {
		h.Logger.Error("failed to render login page", "error", err)
	}
}
