package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jgoulah/ecohome/internal/csvio"
	"github.com/jgoulah/ecohome/pkg/models"
)

// HouseholdJSON is the API representation of a household
type HouseholdJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

type createHouseholdRequest struct {
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

type addUsageRequest struct {
	EntryType  string `json:"entry_type"`
	Value      any    `json:"value"` // number or numeric string
	RecordedAt string `json:"recorded_at"`
}

func (s *Server) apiListHouseholds(c *gin.Context) {
	households, err := s.store.ListHouseholds(c.Request.Context())
	if err != nil {
		s.apiStoreError(c, err)
		return
	}

	out := make([]HouseholdJSON, 0, len(households))
	for _, hh := range households {
		out = append(out, HouseholdJSON{ID: hh.ID, Name: hh.Name, Postcode: hh.Postcode})
	}
	c.JSON(http.StatusOK, gin.H{"households": out})
}

func (s *Server) apiCreateHousehold(c *gin.Context) {
	var req createHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	postcode := strings.TrimSpace(req.Postcode)
	if name == "" || postcode == "" {
		apiError(c, http.StatusBadRequest, "name and postcode required")
		return
	}

	hh, err := s.store.CreateHousehold(c.Request.Context(), name, postcode)
	if err != nil {
		s.apiStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, HouseholdJSON{ID: hh.ID, Name: hh.Name, Postcode: hh.Postcode})
}

func (s *Server) apiDashboard(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.apiStoreError(c, err)
		return
	}

	d, err := s.buildDashboard(c.Request.Context(), hh)
	if err != nil {
		s.apiStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) apiAddUsage(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.apiStoreError(c, err)
		return
	}

	var req addUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entryType, err := models.ParseEntryType(req.EntryType)
	if err != nil {
		apiError(c, http.StatusBadRequest, `entry_type must be "water" or "energy"`)
		return
	}

	value, err := numericValue(req.Value)
	if err != nil {
		apiError(c, http.StatusBadRequest, "value must be numeric")
		return
	}
	if err := models.ValidateValue(value); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	recordedAt := s.now()
	if req.RecordedAt != "" {
		recordedAt, err = csvio.ParseTimestamp(req.RecordedAt, recordedAt.Location())
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	entry, err := s.store.CreateUsageEntry(c.Request.Context(), hh.ID, entryType, value, recordedAt)
	if err != nil {
		s.apiStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "entry_id": entry.ID})
}

// numericValue accepts a JSON number or a string holding one
func numericValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}
