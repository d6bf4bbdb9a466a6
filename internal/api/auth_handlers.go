package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cekaratas/randevu/internal/auth"
	"github.com/cekaratas/randevu/internal/validate"
)

func registerHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := map[string]string{
			"name":     req.Name,
			"email":    req.Email,
			"password": req.Password,
			"age":      req.Age,
		}
		if errs, valid := validate.Form(fields, validate.RegisterRules()); !valid {
			writeValidationError(w, errs)
			return
		}

		age, _ := strconv.Atoi(req.Age)
		u, err := svc.Register(r.Context(), auth.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Age:      age,
			Phone:    req.Phone,
		})
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(u))
	}
}

func loginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := map[string]string{"email": req.Email, "password": req.Password}
		if errs, valid := validate.Form(fields, validate.LoginRules()); !valid {
			writeValidationError(w, errs)
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}

func logoutHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getProfileHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Profile(r.Context())
		if err != nil {
			handleAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(u))
	}
}

func updateProfileHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := map[string]string{
			"name":  req.Name,
			"email": req.Email,
			"age":   req.Age,
			"phone": req.Phone,
		}
		if errs, valid := validate.Form(fields, validate.ProfileRules(fields)); !valid {
			writeValidationError(w, errs)
			return
		}

		age, _ := strconv.Atoi(req.Age)
		u, err := svc.UpdateProfile(r.Context(), auth.ProfilePatch{
			Name:  &req.Name,
			Email: &req.Email,
			Age:   &age,
			Phone: &req.Phone,
		})
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(u))
	}
}

func changePasswordHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := map[string]string{
			"currentPassword": req.CurrentPassword,
			"newPassword":     req.NewPassword,
			"confirmPassword": req.ConfirmPassword,
		}
		if errs, valid := validate.Form(fields, validate.PasswordChangeRules(fields)); !valid {
			writeValidationError(w, errs)
			return
		}

		if err := svc.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
			handleAuthError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "bad_credentials", "email or password is wrong")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, auth.ErrNotRegistered):
		writeError(w, http.StatusNotFound, "not_registered", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
