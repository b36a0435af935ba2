package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string // "success" or "danger"
	Message  string
}

func setFlash(c *gin.Context, category, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, category+"|"+message, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash message
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	category, message, ok := strings.Cut(raw, "|")
	if !ok || (category != "success" && category != "danger") {
		return nil
	}
	return &Flash{Category: category, Message: message}
}

// redirectWithFlash stores a flash message and redirects with 303 See Other
func redirectWithFlash(c *gin.Context, location, category, message string) {
	setFlash(c, category, message)
	c.Redirect(http.StatusSeeOther, location)
}
