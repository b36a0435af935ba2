package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/pkg/models"
)

// apiError writes the JSON error body used by every API route
func apiError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// apiStoreError maps a store failure onto a JSON response
func (s *Server) apiStoreError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		apiError(c, http.StatusNotFound, "household not found")
		return
	}
	s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	apiError(c, http.StatusInternalServerError, "internal server error")
}

// renderError renders the HTML error page
func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

// pageStoreError maps a store failure onto an HTML error page
func (s *Server) pageStoreError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		s.renderError(c, http.StatusNotFound, "Household not found")
		return
	}
	s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	s.renderError(c, http.StatusInternalServerError, "Something went wrong")
}

// lookupHousehold resolves the :id path parameter. Ids that are not
// positive integers cannot exist, so they are reported as not found.
func (s *Server) lookupHousehold(c *gin.Context) (*models.Household, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, database.ErrNotFound
	}
	return s.store.GetHousehold(c.Request.Context(), id)
}
