package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cekaratas/randevu/internal/appointment"
	"github.com/cekaratas/randevu/internal/auth"
	"github.com/cekaratas/randevu/internal/notify"
	"github.com/cekaratas/randevu/internal/settings"
	"github.com/cekaratas/randevu/internal/storage"
)

type testAPI struct {
	srv   *httptest.Server
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	gw := storage.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := appointment.New(gw, notify.NewFake(), logger, appointment.Config{})
	authSvc := auth.NewService(gw, logger, "test-secret", time.Hour)
	settingsSvc := settings.NewService(gw, logger)

	router := NewRouter(RouterConfig{
		Store:    store,
		Auth:     authSvc,
		Settings: settingsSvc,
		Storage:  gw,
		Log:      logger,
		Env:      "test",
		Version:  "test",
		RateRPS:  1000,
		Burst:    1000,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	api := &testAPI{srv: srv}

	api.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "testpass123",
		"age":      "28",
	}, http.StatusCreated, nil)

	var login LoginResponse
	api.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	}, http.StatusOK, &login)
	api.token = login.Token

	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, buf)
	if err != nil {
		t.Fatal(err)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s = %d, want %d; body: %s", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
}

func futureDate(days int) string {
	return time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
}

func TestAppointmentLifecycle(t *testing.T) {
	api := newTestAPI(t)

	var created AppointmentResponse
	api.do(t, http.MethodPost, "/appointments", AppointmentRequest{
		Title:    "Diş hekimi",
		Category: "health",
		Date:     futureDate(3),
	}, http.StatusCreated, &created)

	if created.ID == "" || created.Category != "health" {
		t.Fatalf("created = %+v", created)
	}

	var list []AppointmentResponse
	api.do(t, http.MethodGet, "/appointments", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("list has %d entries, want 1", len(list))
	}

	var got AppointmentResponse
	api.do(t, http.MethodGet, "/appointments/"+created.ID, nil, http.StatusOK, &got)
	if got.Title != "Diş hekimi" {
		t.Errorf("got %+v", got)
	}

	var updated AppointmentResponse
	api.do(t, http.MethodPut, "/appointments/"+created.ID, map[string]string{
		"title": "Diş hekimi kontrolü",
	}, http.StatusOK, &updated)
	if updated.Title != "Diş hekimi kontrolü" {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.Date.Equal(got.Date) {
		t.Error("date changed on a title-only update")
	}

	api.do(t, http.MethodDelete, "/appointments/"+created.ID, nil, http.StatusNoContent, nil)
	api.do(t, http.MethodGet, "/appointments/"+created.ID, nil, http.StatusNotFound, nil)
}

func TestCreateAppointmentValidation(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodPost, api.srv.URL+"/appointments",
		bytes.NewReader([]byte(`{"title":"ab","date":"not-a-date"}`)))
	req.Header.Set("Authorization", "Bearer "+api.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var ve ValidationErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&ve); err != nil {
		t.Fatal(err)
	}
	if ve.Fields["title"] == "" || ve.Fields["date"] == "" {
		t.Errorf("fields = %v, want title and date errors", ve.Fields)
	}
}

func TestListPartition(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/appointments", AppointmentRequest{
		Title: "Yaklaşan randevu",
		Date:  futureDate(5),
	}, http.StatusCreated, nil)

	var upcoming []AppointmentResponse
	api.do(t, http.MethodGet, "/appointments?when=upcoming", nil, http.StatusOK, &upcoming)
	if len(upcoming) != 1 {
		t.Errorf("upcoming = %d entries, want 1", len(upcoming))
	}

	var past []AppointmentResponse
	api.do(t, http.MethodGet, "/appointments?when=past", nil, http.StatusOK, &past)
	if len(past) != 0 {
		t.Errorf("past = %d entries, want 0", len(past))
	}

	api.do(t, http.MethodGet, "/appointments?when=yesterday", nil, http.StatusBadRequest, nil)
}

func TestCalendarEndpoints(t *testing.T) {
	api := newTestAPI(t)

	date := time.Now().UTC().AddDate(0, 0, 10)
	api.do(t, http.MethodPost, "/appointments", AppointmentRequest{
		Title: "Takvim testi",
		Date:  date.Format(time.RFC3339),
	}, http.StatusCreated, nil)

	var cal CalendarResponse
	path := fmt.Sprintf("/calendar/%d/%d", date.Year(), int(date.Month()))
	api.do(t, http.MethodGet, path, nil, http.StatusOK, &cal)

	if len(cal.Days)%7 != 0 {
		t.Errorf("grid has %d cells, want a multiple of 7", len(cal.Days))
	}
	found := false
	for _, d := range cal.Days {
		if d.Date == date.Format("2006-01-02") && len(d.Appointments) == 1 {
			found = true
		}
	}
	if !found {
		t.Error("appointment missing from its grid cell")
	}

	var onDay []AppointmentResponse
	api.do(t, http.MethodGet, "/calendar/day/"+date.Format("2006-01-02"), nil, http.StatusOK, &onDay)
	if len(onDay) != 1 {
		t.Errorf("day view has %d entries, want 1", len(onDay))
	}

	api.do(t, http.MethodGet, fmt.Sprintf("/calendar/%d/13", date.Year()), nil, http.StatusBadRequest, nil)
}

func TestStatisticsEndpoint(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/appointments", AppointmentRequest{
		Title:    "Sayım testi",
		Category: "work",
		Date:     futureDate(1),
	}, http.StatusCreated, nil)

	var stats struct {
		Total      int            `json:"total"`
		Upcoming   int            `json:"upcoming"`
		ByCategory map[string]int `json:"byCategory"`
	}
	api.do(t, http.MethodGet, "/statistics", nil, http.StatusOK, &stats)

	if stats.Total != 1 || stats.Upcoming != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByCategory["work"] != 1 {
		t.Errorf("byCategory = %v", stats.ByCategory)
	}
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodGet, api.srv.URL+"/appointments", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}

	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/auth/logout", nil, http.StatusNoContent, nil)

	req, _ := http.NewRequest(http.MethodGet, api.srv.URL+"/profile", nil)
	req.Header.Set("Authorization", "Bearer "+api.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", resp.StatusCode)
	}
}

func TestProfileAndPassword(t *testing.T) {
	api := newTestAPI(t)

	var profile ProfileResponse
	api.do(t, http.MethodGet, "/profile", nil, http.StatusOK, &profile)
	if profile.Email != "test@example.com" || profile.Age != 28 {
		t.Errorf("profile = %+v", profile)
	}

	var updated ProfileResponse
	api.do(t, http.MethodPut, "/profile", ProfileRequest{
		Name:  "Renamed User",
		Email: "test@example.com",
		Age:   "29",
		Phone: "05321234567",
	}, http.StatusOK, &updated)
	if updated.Name != "Renamed User" || updated.Age != 29 {
		t.Errorf("updated = %+v", updated)
	}

	api.do(t, http.MethodPut, "/profile/password", PasswordChangeRequest{
		CurrentPassword: "testpass123",
		NewPassword:     "newpass12",
		ConfirmPassword: "newpass12",
	}, http.StatusNoContent, nil)

	api.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	}, http.StatusUnauthorized, nil)

	var relogin LoginResponse
	api.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "newpass12",
	}, http.StatusOK, &relogin)
	if relogin.Token == "" {
		t.Error("empty token after password change")
	}
}

func TestSettingsAndTheme(t *testing.T) {
	api := newTestAPI(t)

	var defaults settings.Settings
	api.do(t, http.MethodGet, "/settings", nil, http.StatusOK, &defaults)
	if defaults != settings.Defaults() {
		t.Errorf("defaults = %+v", defaults)
	}

	want := settings.Settings{Notifications: false, SoundEnabled: true, ReminderMinutes: 30, Language: "en"}
	api.do(t, http.MethodPut, "/settings", want, http.StatusOK, nil)

	var got settings.Settings
	api.do(t, http.MethodGet, "/settings", nil, http.StatusOK, &got)
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}

	var theme ThemeResponse
	api.do(t, http.MethodGet, "/theme", nil, http.StatusOK, &theme)
	if theme.Theme != settings.ThemeLight {
		t.Errorf("default theme = %q", theme.Theme)
	}

	api.do(t, http.MethodPut, "/theme", ThemeRequest{Theme: "dark"}, http.StatusOK, nil)
	api.do(t, http.MethodGet, "/theme", nil, http.StatusOK, &theme)
	if theme.Theme != settings.ThemeDark {
		t.Errorf("theme = %q, want dark", theme.Theme)
	}

	api.do(t, http.MethodPut, "/theme", ThemeRequest{Theme: "neon"}, http.StatusBadRequest, nil)
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	resp, err := http.Get(api.srv.URL + "/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("liveness = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(api.srv.URL + "/health/ready")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readiness = %d, want 200", resp.StatusCode)
	}

	var ready ReadinessResponse
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		t.Fatal(err)
	}
	if ready.Dependencies["storage"] != "ok" {
		t.Errorf("dependencies = %v", ready.Dependencies)
	}
}
