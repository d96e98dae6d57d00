package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// reportCSVHeaders is the first row of the CSV followers report.
var reportCSVHeaders = []string{"vacation_id", "destination", "start_date", "end_date", "followers"}

// listFollowed handles GET /api/followings: the vacations the caller follows.
func (s *Server) listFollowed(w http.ResponseWriter, r *http.Request) {
	vs, err := s.followings.ListFollowed(r.Context(), claims(r).UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, vacationsToResponse(vs))
}

// follow handles POST /api/followings/{vacationId}.
func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	vacationID, err := pathInt64(r, "vacationId")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := s.followings.Follow(r.Context(), claims(r).UserID, vacationID); err != nil {
		s.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// unfollow handles DELETE /api/followings/{vacationId}.
func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	vacationID, err := pathInt64(r, "vacationId")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := s.followings.Unfollow(r.Context(), claims(r).UserID, vacationID); err != nil {
		s.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// getFollowerReport handles GET /api/followings/report. Admin only.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) getFollowerReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.followings.Report(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		out := make([]FollowerReportRow, len(rows))
		for i, row := range rows {
			out[i] = FollowerReportRow{
				VacationId:  row.VacationID,
				Destination: row.Destination,
				StartDate:   row.StartDate,
				EndDate:     row.EndDate,
				Followers:   row.Followers,
			}
		}
		render.JSON(w, r, out)
	case "csv":
		body := buildReportCSV(rows)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="followers.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
	default:
		badRequest(w, r, "format must be json or csv")
	}
}

// buildReportCSV encodes report rows as CSV with a header row.
func buildReportCSV(rows []domain.FollowerReportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(reportCSVHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write([]string{
			strconv.FormatInt(row.VacationID, 10),
			csvSafe(row.Destination),
			row.StartDate,
			row.EndDate,
			strconv.FormatInt(row.Followers, 10),
		})
	}
	cw.Flush()
	return &buf
}

// csvSafe prefixes cells that spreadsheets would evaluate as formulas with a
// single quote, so the report opens as plain text.
func csvSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
