package handlers

import (
	"imc-punching/internal/adapters/http/middleware"
	"imc-punching/internal/core/domain"
	"imc-punching/internal/core/services"
	"imc-punching/internal/pkg/pagination"
	"imc-punching/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PunchHandler handles punch endpoints
type PunchHandler struct {
	punchService *services.PunchService
}

// NewPunchHandler creates a new punch handler
func NewPunchHandler(punchService *services.PunchService) *PunchHandler {
	return &PunchHandler{punchService: punchService}
}

// PunchInRequest represents punch-in fields, sent as JSON or multipart form
type PunchInRequest struct {
	CustomerName    string `json:"customerName" form:"customerName"`
	PunchInLocation string `json:"punchInLocation" form:"punchInLocation"`
	PunchInTime     string `json:"punchInTime" form:"punchInTime"`
	PunchDate       string `json:"punchDate" form:"punchDate"`
}

// PunchOutRequest represents punch-out fields, sent as JSON or multipart form
type PunchOutRequest struct {
	ID               flexString `json:"id" form:"-"`
	PunchOutLocation string     `json:"punchOutLocation" form:"punchOutLocation"`
	PunchOutTime     string     `json:"punchOutTime" form:"punchOutTime"`
	PunchOutDate     string     `json:"punchOutDate" form:"punchOutDate"`
}

func identity(c *fiber.Ctx) (domain.Identity, error) {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return who, nil
}

// ListCustomers handles customer list
// @Summary List customers
// @Description Customer names of the caller's client
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /punch/customers [get]
func (h *PunchHandler) ListCustomers(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	customers, err := h.punchService.ListCustomers(c.UserContext(), who)
	if err != nil {
		return err
	}
	return response.List(c, len(customers), customers)
}

// PunchIn handles punch-in
// @Summary Punch in
// @Description Start a visit. Accepts multipart with a photo file field, or JSON.
// @Tags Punch
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customerName formData string true "Customer name"
// @Param punchInLocation formData string true "Location"
// @Param punchInTime formData string true "ISO-8601 time"
// @Param punchDate formData string true "YYYY-MM-DD"
// @Param photo formData file true "Photo"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Failure 415 {object} response.Response
// @Router /punch/punch-in [post]
func (h *PunchHandler) PunchIn(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req PunchInRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	photo, file, err := openPhoto(c)
	if err != nil {
		return err
	}
	defer closeFile(file)

	record, err := h.punchService.BeginPunch(c.UserContext(), who, &services.PunchInInput{
		CustomerName:    req.CustomerName,
		PunchInLocation: req.PunchInLocation,
		PunchInTime:     req.PunchInTime,
		PunchDate:       req.PunchDate,
		Photo:           photo,
	})
	if err != nil {
		return err
	}
	return response.Created(c, record)
}

// PunchOut handles punch-out
// @Summary Punch out
// @Description Complete one of the caller's pending visits. The photo is optional and replaces the punch-in photo.
// @Tags Punch
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id formData string true "Punch id"
// @Param punchOutLocation formData string true "Location"
// @Param punchOutTime formData string true "ISO-8601 time"
// @Param punchOutDate formData string true "YYYY-MM-DD"
// @Param photo formData file false "Photo"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /punch/punch-out [post]
func (h *PunchHandler) PunchOut(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req PunchOutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if isForm(c) {
		req.ID = flexString(c.FormValue("id"))
	}

	photo, file, err := openPhoto(c)
	if err != nil {
		return err
	}
	defer closeFile(file)

	record, err := h.punchService.CompletePunch(c.UserContext(), who, &services.PunchOutInput{
		ID:               string(req.ID),
		PunchOutLocation: req.PunchOutLocation,
		PunchOutTime:     req.PunchOutTime,
		PunchOutDate:     req.PunchOutDate,
		Photo:            photo,
	})
	if err != nil {
		return err
	}
	return response.Success(c, record)
}

// ListPending handles the caller's open punches
// @Summary Pending punches
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /punch/pending [get]
func (h *PunchHandler) ListPending(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	records, err := h.punchService.ListPending(c.UserContext(), who)
	if err != nil {
		return err
	}
	return response.List(c, len(records), records)
}

// ListCompleted handles the caller's closed punches
// @Summary Completed punches
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 10, max 100)"
// @Success 200 {object} response.Response
// @Router /punch/completed [get]
func (h *PunchHandler) ListCompleted(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	records, err := h.punchService.ListCompleted(c.UserContext(), who, pagination.QueryInt(c, "limit"))
	if err != nil {
		return err
	}
	return response.List(c, len(records), records)
}

// ListByDate handles the admin daily view
// @Summary Punches by date (admin)
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /punch/date/{date} [get]
func (h *PunchHandler) ListByDate(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	records, err := h.punchService.ListByDate(c.UserContext(), who, c.Params("date"))
	if err != nil {
		return err
	}
	return response.List(c, len(records), records)
}

// ListRecent handles the admin recent view
// @Summary Recent punches (admin)
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Param days query int false "Calendar days including today (default 5, max 90)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /punch/recent [get]
func (h *PunchHandler) ListRecent(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	records, err := h.punchService.ListRecent(c.UserContext(), who, pagination.QueryInt(c, "days"))
	if err != nil {
		return err
	}
	return response.List(c, len(records), records)
}

// GetPunch handles fetch by id
// @Summary Get punch
// @Tags Punch
// @Produce json
// @Security BearerAuth
// @Param id path string true "Punch id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /punch/{id} [get]
func (h *PunchHandler) GetPunch(c *fiber.Ctx) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	record, err := h.punchService.GetPunch(c.UserContext(), who, c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, record)
}
