package customer

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brightcart/identity/internal/observability"
	"github.com/brightcart/identity/internal/platform/httpx"
	"github.com/brightcart/identity/internal/platform/result"
)

// Handler exposes the provisioning and credential operations over JSON HTTP.
// Result status codes map 1:1 to HTTP statuses, so the envelope is written
// with its own code.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

type createCustomerDTO struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	PhoneNumber   string `json:"phoneNumber"`
	StreetAddress string `json:"streetAddress"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`

	// The credential-free variant never sets a password; a non-empty value
	// is rejected instead of silently dropped.
	Password string `json:"password" validate:"isdefault"`
}

type createCustomerWithPasswordDTO struct {
	createCustomerDTO
	Password string `json:"password" validate:"required,min=8"`
}

type registerDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type confirmEmailDTO struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var dto createCustomerDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		writeResult(h, w, "CreateCustomer", result.BadRequest[*Customer]("Request cannot be null."))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeResult(h, w, "CreateCustomer", result.BadRequest[*Customer]("Invalid request payload."))
		return
	}
	writeResult(h, w, "CreateCustomer", h.service.CreateCustomer(r.Context(), requestFromDTO(dto)))
}

func (h *Handler) createCustomerWithPassword(w http.ResponseWriter, r *http.Request) {
	var dto createCustomerWithPasswordDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		writeResult(h, w, "CreateCustomerWithPassword", result.BadRequest[*Customer]("Request cannot be null."))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeResult(h, w, "CreateCustomerWithPassword", result.BadRequest[*Customer]("Invalid request payload."))
		return
	}
	writeResult(h, w, "CreateCustomerWithPassword", h.service.CreateCustomerWithPassword(r.Context(), requestFromDTO(dto.createCustomerDTO), dto.Password))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var dto registerDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		writeResult(h, w, "CreateCustomerWithPasswordWithoutProfile", result.BadRequest[*Customer]("Parameters cannot be null."))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeResult(h, w, "CreateCustomerWithPasswordWithoutProfile", result.BadRequest[*Customer]("Invalid request payload."))
		return
	}
	writeResult(h, w, "CreateCustomerWithPasswordWithoutProfile", h.service.CreateCustomerWithPasswordWithoutProfile(r.Context(), dto.Email, dto.Password))
}

func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	var dto confirmEmailDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		writeResult(h, w, "ValidateEmailToken", result.BadRequest[bool]("Request cannot be null."))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeResult(h, w, "ValidateEmailToken", result.BadRequest[bool]("Invalid request payload."))
		return
	}
	writeResult(h, w, "ValidateEmailToken", h.service.ValidateEmailToken(r.Context(), dto.Email, dto.Token))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var dto loginDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		writeResult(h, w, "LoginCustomer", result.BadRequest[*AuthData]("Request cannot be null."))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeResult(h, w, "LoginCustomer", result.BadRequest[*AuthData]("Invalid request payload."))
		return
	}
	writeResult(h, w, "LoginCustomer", h.service.Login(r.Context(), dto.Email, dto.Password))
}

// writeResult mirrors the envelope's status code onto the HTTP response and
// records the operation outcome. A package function because methods cannot be
// generic.
func writeResult[T any](h *Handler, w http.ResponseWriter, op string, res result.Result[T]) {
	if h.metrics != nil {
		h.metrics.RecordProvisioning(op, res.StatusCode)
	}
	if res.StatusCode >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error("operation failed", slog.String("op", op), slog.String("message", res.ErrorMessage))
	}
	httpx.JSON(w, res.StatusCode, res)
}

func requestFromDTO(dto createCustomerDTO) *CreateCustomerRequest {
	return &CreateCustomerRequest{
		Email:         dto.Email,
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		PhoneNumber:   dto.PhoneNumber,
		StreetAddress: dto.StreetAddress,
		PostalCode:    dto.PostalCode,
		City:          dto.City,
	}
}
