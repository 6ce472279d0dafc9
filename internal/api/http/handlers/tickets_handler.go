package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/api/dto"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/auth"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/lifecycle"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/observability"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/service"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/workspace"
	apperrors "github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// TicketsHandler serves the dashboard ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	metrics *observability.Metrics
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, metrics *observability.Metrics) *TicketsHandler {
	return &TicketsHandler{service: ticketService, metrics: metrics}
}

// List GET /tickets. Reloads the workspace from upstream (limit, leg type
// are fetch parameters) and applies the client-side criteria to the
// deduplicated set.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	leg, err := parseLeg(c.Query("leg_type"))
	if err != nil {
		return err
	}

	if _, err := h.service.Reload(c.UserContext(), limit, leg); err != nil {
		return err
	}
	h.metrics.RecordReload()

	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	tickets := h.service.List(criteria)
	return c.JSON(dto.TicketListResponse{
		Total:   len(tickets),
		Tickets: dto.FromTickets(tickets),
	})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats(c.UserContext()))
}

// Get GET /tickets/:code.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": dto.FromTicket(*ticket)})
}

// Process PUT /tickets/:code/process.
func (h *TicketsHandler) Process(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Process(c.UserContext(), actor, c.Params("code"), lifecycle.ProcessInput{
		Advisor: req.Advisor,
		Note:    req.Note,
		Seat:    req.Seat,
		Account: req.Account,
	})
	if err != nil {
		return err
	}
	h.metrics.RecordMutation("process")
	return c.JSON(fiber.Map{
		"success": true,
		"code":    ticket.Code,
		"ticket":  dto.FromTicket(*ticket),
	})
}

// ToggleAttention PUT /tickets/:code/attention.
func (h *TicketsHandler) ToggleAttention(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.ToggleAttention(c.UserContext(), actor, c.Params("code"))
	if err != nil {
		return err
	}
	h.metrics.RecordMutation("attention")
	return c.JSON(fiber.Map{
		"success":   true,
		"code":      ticket.Code,
		"attention": ticket.Attention,
	})
}

// PatchDraft PATCH /tickets/:code/draft.
func (h *TicketsHandler) PatchDraft(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DraftPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.EditDraft(c.UserContext(), actor, c.Params("code"), domain.DraftPatch{
		Advisor: req.Advisor,
		Note:    req.Note,
		Seat:    req.Seat,
		Account: req.Account,
	})
	if err != nil {
		return err
	}
	h.metrics.RecordMutation("draft_edit")
	return c.JSON(fiber.Map{"ticket": dto.FromTicket(*ticket)})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateDraft(c.UserContext(), actor, domain.TicketDraft{
		Code:          req.Code,
		RecordLocator: req.RecordLocator,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		IssuerName:    req.IssuerName,
		Itinerary:     req.Itinerary,
		DepartureAt:   req.DepartureAt,
		Leg:           req.Leg,
		Advisor:       req.Advisor,
		Note:          req.Note,
		Seat:          req.Seat,
		Account:       req.Account,
	})
	if err != nil {
		return err
	}
	h.metrics.RecordMutation("create")
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    ticket.Code,
		"ticket":  dto.FromTicket(*ticket),
	})
}

func actorFromContext(c *fiber.Ctx) (lifecycle.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return lifecycle.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return lifecycle.Actor{Identity: principal.User.Login, Role: principal.Role}, nil
}

func parseCriteria(c *fiber.Ctx) (workspace.Criteria, error) {
	criteria := workspace.Criteria{
		Query: strings.TrimSpace(c.Query("q")),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		parsed := domain.TicketStatus(strings.ToUpper(status))
		if parsed != domain.TicketStatusPending && parsed != domain.TicketStatusProcessed {
			return workspace.Criteria{}, apperrors.NewValidationError("unknown status filter", map[string]any{"status": status})
		}
		criteria.Status = parsed
	}
	var err error
	if criteria.DateFrom, err = parseDate(c.Query("date_from")); err != nil {
		return workspace.Criteria{}, err
	}
	if criteria.DateTo, err = parseDate(c.Query("date_to")); err != nil {
		return workspace.Criteria{}, err
	}
	return criteria, nil
}

func parseLeg(val string) (domain.LegType, error) {
	switch strings.ToUpper(strings.TrimSpace(val)) {
	case "":
		return "", nil
	case string(domain.LegOutbound):
		return domain.LegOutbound, nil
	case string(domain.LegReturn):
		return domain.LegReturn, nil
	default:
		return "", apperrors.NewValidationError("unknown leg type", map[string]any{"leg_type": val})
	}
}

func parseDate(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewValidationError("invalid date filter", map[string]any{"value": val})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
