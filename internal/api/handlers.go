package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cekaratas/randevu/internal/appointment"
	"github.com/cekaratas/randevu/internal/projection"
	"github.com/cekaratas/randevu/internal/validate"
)

func createAppointmentHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := map[string]string{
			"title":       req.Title,
			"date":        req.Date,
			"description": req.Description,
		}
		if errs, valid := validate.Form(fields, validate.AppointmentRules()); !valid {
			writeValidationError(w, errs)
			return
		}

		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be RFC 3339")
			return
		}

		appt, err := store.Create(r.Context(), appointment.Draft{
			Title:       req.Title,
			Category:    appointment.ParseCategory(req.Category),
			Description: req.Description,
			Date:        date,
			Repeat:      appointment.ParseRepeat(req.Repeat),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts := store.List()

		switch when := r.URL.Query().Get("when"); when {
		case "":
		case "past":
			appts, _ = projection.PartitionByTime(appts, time.Now())
		case "upcoming":
			_, appts = projection.PartitionByTime(appts, time.Now())
		default:
			writeError(w, http.StatusBadRequest, "invalid_when", "when must be past or upcoming")
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func getAppointmentHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := store.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

// UpdateAppointmentRequest carries only the fields the client wants changed.
type UpdateAppointmentRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Repeat      *string `json:"repeat"`
}

func updateAppointmentHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := make(map[string]string)
		rules := make(map[string][]validate.Predicate)
		if req.Title != nil {
			fields["title"] = *req.Title
			rules["title"] = []validate.Predicate{validate.Title}
		}
		if req.Description != nil {
			fields["description"] = *req.Description
			rules["description"] = []validate.Predicate{validate.Description}
		}
		if req.Date != nil {
			fields["date"] = *req.Date
			rules["date"] = []validate.Predicate{validate.AppointmentDate}
		}
		if errs, valid := validate.Form(fields, rules); !valid {
			writeValidationError(w, errs)
			return
		}

		patch := appointment.Patch{
			Title:       req.Title,
			Description: req.Description,
		}
		if req.Category != nil {
			c := appointment.ParseCategory(*req.Category)
			patch.Category = &c
		}
		if req.Repeat != nil {
			rep := appointment.ParseRepeat(*req.Repeat)
			patch.Repeat = &rep
		}
		if req.Date != nil {
			date, err := time.Parse(time.RFC3339, *req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be RFC 3339")
				return
			}
			patch.Date = &date
		}

		appt, err := store.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			handleStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func monthCalendarHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_year", "year must be a number")
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid_month", "month must be 1-12")
			return
		}

		cells := projection.MonthGrid(store.List(), year, time.Month(month), time.UTC)

		days := make([]DayCellResponse, 0, len(cells))
		for _, c := range cells {
			days = append(days, DayCellResponse{
				Date:         c.Date.Format("2006-01-02"),
				InMonth:      c.InMonth,
				Appointments: toAppointmentResponses(c.Appointments),
			})
		}

		writeJSON(w, http.StatusOK, CalendarResponse{Year: year, Month: month, Days: days})
	}
}

func dayCalendarHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appts := projection.AppointmentsOnDay(store.List(), day)
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func statisticsHandler(store *appointment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, projection.CategoryStatistics(store.List(), time.Now()))
	}
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
