package person

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"academy-service/internal/httputil"
	"academy-service/internal/metrics"
	"academy-service/internal/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/user", h.CreatePerson)
	router.Get("/students/", h.GetAllPersons)
	router.Get("/students/list", h.GetStudents)
	router.Get("/teachers/list", h.GetTeachers)
	router.Get("/students/{id}", h.GetPerson)
	router.Put("/students/{id}", h.UpdatePerson)
	router.Delete("/students/{id}", h.DeletePerson)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating person", "name", req.Name)
	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordPersonRegistered(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllPersons(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all persons")

	persons, err := h.service.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": persons})
}

func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching students")

	persons, err := h.service.ListStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": persons})
}

func (h *Handler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching teachers")

	persons, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": persons})
}

func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching person by ID", "user_id", id)
	person, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, person)
}

func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating person", "user_id", id)
	updated, err := h.service.Update(r.Context(), id, &upd)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting person", "user_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
		"user_id": id,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPersonNotFound):
		h.logger.Info("person not found")
		httputil.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrDuplicateName):
		h.logger.Info("duplicate name")
		httputil.RespondWithError(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, validate.ErrInvalidPhone):
		h.logger.Info("invalid phone number")
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid Phone Number")
	case errors.Is(err, validate.ErrInvalidEmail):
		h.logger.Info("invalid email id")
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid email id")
	case errors.Is(err, ErrInvalidInput):
		h.logger.Info("invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
