// Package account serves the account-linking redirect page. The flow is
// stateless: a fresh authorization code is generated per request and
// handed back through the platform's redirect URI.
package account

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var linkPage = template.Must(template.New("link").Parse(`<!DOCTYPE html>
<html>
<head><title>Link your account</title></head>
<body>
<h1>Link your account</h1>
<p>Tap the button below to finish linking your account.</p>
<a href="{{.RedirectURI}}">Continue</a>
</body>
</html>
`))

// Handler serves the account-linking authorize endpoint.
type Handler struct {
	logger *logger.Logger
}

// NewHandler creates an account-linking handler.
func NewHandler(log *logger.Logger) *Handler {
	return &Handler{logger: log.WithModule("account")}
}

// HandleAuthorize renders the linking page. The redirect URI gets an
// authorization code appended; the platform passes the code back in a
// later account_linking webhook event.
func (h *Handler) HandleAuthorize(c *gin.Context) {
	linkingToken := c.Query("account_linking_token")
	redirectURI := c.Query("redirect_uri")
	if linkingToken == "" || redirectURI == "" {
		h.logger.Warn("Authorize request missing linking token or redirect URI")
		c.Status(http.StatusBadRequest)
		return
	}

	parsed, err := url.Parse(redirectURI)
	if err != nil {
		h.logger.WithError(err).Warn("Authorize request has malformed redirect URI")
		c.Status(http.StatusBadRequest)
		return
	}

	code := uuid.NewString()
	query := parsed.Query()
	query.Set("authorization_code", code)
	parsed.RawQuery = query.Encode()

	h.logger.WithField("redirect_host", parsed.Host).Info("Account link authorized")

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := linkPage.Execute(c.Writer, gin.H{"RedirectURI": parsed.String()}); err != nil {
		h.logger.WithError(err).Error("Failed to render link page")
	}
}
