package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"academy-service/internal/httputil"
	"academy-service/internal/metrics"

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
	router.Post("/payments", h.CreatePayment)
	router.Get("/payments", h.GetPayments)
	router.Get("/payments/{id}", h.GetPayment)
	router.Put("/payments/{id}", h.UpdatePayment)
	router.Delete("/payments/{id}", h.DeletePayment)
	router.Post("/payments/{id}/mark-paid", h.MarkPaymentPaid)
	router.Get("/students/{id}/payments", h.GetStudentPayments)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.DueDate.IsZero() {
		httputil.RespondWithError(w, http.StatusBadRequest, "Due date is required")
		return
	}

	h.logger.InfoContext(r.Context(), "creating payment", "student_id", req.StudentID, "amount", req.Amount)
	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordPaymentRecorded(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	h.logger.InfoContext(r.Context(), "fetching payments", "status", status)
	payments, err := h.service.List(r.Context(), status)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": payments})
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching payment by ID", "payment_id", id)
	payment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, payment)
}

func (h *Handler) GetStudentPayments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching payments for student", "user_id", id)
	student, payments, err := h.service.ListForStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":    payments,
		"student": student,
	})
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating payment", "payment_id", id)
	updated, err := h.service.Update(r.Context(), id, &upd)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting payment", "payment_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Payment deleted successfully",
		"payment_id": id,
	})
}

func (h *Handler) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	query := r.URL.Query()
	method := query.Get("paymentMethod")
	if method == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "Payment method is required")
		return
	}

	var date *Date
	if raw := query.Get("paymentDate"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment date")
			return
		}
		date = &parsed
	}

	h.logger.InfoContext(r.Context(), "marking payment as paid", "payment_id", id, "method", method)
	updated, err := h.service.MarkPaid(r.Context(), id, method, date)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordPaymentMarkedPaid(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		h.logger.Info("payment not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrStudentNotFound):
		h.logger.Info("student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrInvalidInput):
		h.logger.Info("invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
