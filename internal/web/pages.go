package web

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jgoulah/ecohome/internal/csvio"
	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/pkg/models"
)

func (s *Server) index(c *gin.Context) {
	households, err := s.store.ListHouseholds(c.Request.Context())
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      "Households",
		"Flash":      popFlash(c),
		"Households": households,
	})
}

func (s *Server) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Flash": popFlash(c),
	})
}

func (s *Server) register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	postcode := strings.TrimSpace(c.PostForm("postcode"))
	if name == "" || postcode == "" {
		redirectWithFlash(c, "/register", "danger", "Please provide both a name and postcode.")
		return
	}

	hh, err := s.store.CreateHousehold(c.Request.Context(), name, postcode)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	s.log.Info("registered household %d (%s)", hh.ID, hh.Name)
	redirectWithFlash(c, householdPath(hh.ID), "success", "Household added! You can now add usage or view the dashboard.")
}

func (s *Server) dashboard(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	d, err := s.buildDashboard(c.Request.Context(), hh)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":     hh.Name,
		"Flash":     popFlash(c),
		"Dashboard": d,
	})
}

func (s *Server) addUsageForm(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	c.HTML(http.StatusOK, "add_usage.html", gin.H{
		"Title":      "Add usage",
		"Flash":      popFlash(c),
		"Household":  hh,
		"EntryTypes": models.EntryTypes,
	})
}

func (s *Server) addUsage(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}
	formPath := householdPath(hh.ID) + "/add"

	entryType, value, recordedAt, err := parseUsageForm(c, s.now().Location())
	if err != nil {
		redirectWithFlash(c, formPath, "danger", "Invalid input: "+err.Error())
		return
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	if _, err := s.store.CreateUsageEntry(c.Request.Context(), hh.ID, entryType, value, recordedAt); err != nil {
		s.pageStoreError(c, err)
		return
	}

	redirectWithFlash(c, householdPath(hh.ID), "success", "Entry added")
}

func (s *Server) exportCSV(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	entries, err := s.store.ListEntries(c.Request.Context(), hh.ID, database.ListOptions{Order: database.Ascending})
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := csvio.Export(&buf, entries); err != nil {
		s.pageStoreError(c, fmt.Errorf("exporting CSV: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(hh.Name)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) importForm(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	c.HTML(http.StatusOK, "import_export.html", gin.H{
		"Title":     "Import / export",
		"Flash":     popFlash(c),
		"Household": hh,
	})
}

func (s *Server) importCSV(c *gin.Context) {
	hh, err := s.lookupHousehold(c)
	if err != nil {
		s.pageStoreError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		redirectWithFlash(c, fmt.Sprintf("/import/%d", hh.ID), "danger", "No file uploaded")
		return
	}

	n, err := s.importUpload(c.Request.Context(), hh.ID, fh)
	if err != nil {
		s.log.Warning("import for household %d failed: %v", hh.ID, err)
		redirectWithFlash(c, householdPath(hh.ID), "danger", "Import failed: "+err.Error())
		return
	}

	s.log.Info("imported %d entries for household %d", n, hh.ID)
	redirectWithFlash(c, householdPath(hh.ID), "success", fmt.Sprintf("Imported %d usage entries", n))
}

// importUpload parses an uploaded CSV and stores every row, or none
func (s *Server) importUpload(ctx context.Context, householdID int64, fh *multipart.FileHeader) (int, error) {
	f, err := fh.Open()
	if err != nil {
		return 0, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	entries, err := csvio.Import(f, s.now())
	if err != nil {
		return 0, err
	}
	return s.store.ImportEntries(ctx, householdID, entries)
}

// ExportFilename names a household's CSV download
func ExportFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '"' || r == '\\' || r == '/' || r < 0x20:
			return -1
		}
		return r
	}, name)
	return name + "_usage.csv"
}

func parseUsageForm(c *gin.Context, loc *time.Location) (models.EntryType, float64, time.Time, error) {
	entryType, err := models.ParseEntryType(c.PostForm("entry_type"))
	if err != nil {
		return "", 0, time.Time{}, err
	}

	raw := strings.TrimSpace(c.PostForm("value"))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, time.Time{}, fmt.Errorf("value %q is not a number", raw)
	}
	if err := models.ValidateValue(value); err != nil {
		return "", 0, time.Time{}, err
	}

	var recordedAt time.Time
	if raw := strings.TrimSpace(c.PostForm("recorded_at")); raw != "" {
		recordedAt, err = csvio.ParseTimestamp(raw, loc)
		if err != nil {
			return "", 0, time.Time{}, err
		}
	}

	return entryType, value, recordedAt, nil
}

func householdPath(id int64) string {
	return fmt.Sprintf("/household/%d", id)
}
