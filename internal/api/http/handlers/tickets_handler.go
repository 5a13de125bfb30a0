package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-repair-service/internal/api/dto"
	"github.com/spec-kit/it-repair-service/internal/auth"
	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/service"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateCreate(&req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		LineUserID:       req.LineUserID,
		Nickname:         strings.TrimSpace(req.Nickname),
		DepartmentID:     req.DepartmentID,
		Phone:            req.Phone,
		LocationBuilding: req.LocationBuilding,
		LocationFloor:    req.LocationFloor,
		LocationRoom:     req.LocationRoom,
		LocationDetail:   req.LocationDetail,
		Category:         domain.TicketCategory(req.Category),
		IssueTitle:       strings.TrimSpace(req.IssueTitle),
		IssueDescription: req.IssueDescription,
		Priority:         domain.TicketPriority(req.Priority),
	}
	ticket, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// List GET /tickets (admin).
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	query, err := parseListQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(result.Tickets))
	for i := range result.Tickets {
		items = append(items, dto.NewTicketSummary(&result.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets: items,
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
		HasMore: result.HasMore,
	}})
}

// Get GET /tickets/:id (admin).
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// Update PUT /tickets/:id (admin).
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return apperrors.NewUnauthenticated("admin required")
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		AssignedTo:         req.AssignedTo,
		Comment:            req.Comment,
		CancellationReason: req.CancellationReason,
		NotifyUser:         req.NotifyUser,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		if !status.IsValid() {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": *req.Status})
		}
		input.Status = &status
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), claims.AdminID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// ListByLineUser GET /tickets/line/:lineUserId.
func (h *TicketsHandler) ListByLineUser(c *fiber.Ctx) error {
	tickets, err := h.service.GetByLineUser(c.UserContext(), c.Params("lineUserId"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func validateCreate(req *dto.CreateTicketRequest) error {
	missing := []string{}
	if req.LineUserID == "" {
		missing = append(missing, "lineUserId")
	}
	if strings.TrimSpace(req.Nickname) == "" {
		missing = append(missing, "nickname")
	}
	if req.DepartmentID == "" {
		missing = append(missing, "departmentId")
	}
	if req.LocationBuilding == "" {
		missing = append(missing, "locationBuilding")
	}
	if req.LocationFloor == "" {
		missing = append(missing, "locationFloor")
	}
	if req.LocationRoom == "" {
		missing = append(missing, "locationRoom")
	}
	if strings.TrimSpace(req.IssueTitle) == "" {
		missing = append(missing, "issueTitle")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	if !domain.TicketCategory(req.Category).IsValid() {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": req.Category})
	}
	if req.Priority != "" && !domain.TicketPriority(req.Priority).IsValid() {
		return apperrors.NewValidationError("unknown priority", map[string]any{"priority": req.Priority})
	}
	return nil
}

func parseListQuery(c *fiber.Ctx) (service.TicketListQuery, error) {
	query := service.TicketListQuery{
		Page:      parseInt(c.Query("page"), 1),
		Limit:     parseInt(c.Query("limit"), 25),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if val := c.Query("status"); val != "" {
		status := domain.TicketStatus(val)
		if !status.IsValid() {
			return query, apperrors.NewValidationError("unknown status", map[string]any{"status": val})
		}
		query.Status = &status
	}
	if val := c.Query("category"); val != "" {
		category := domain.TicketCategory(val)
		if !category.IsValid() {
			return query, apperrors.NewValidationError("unknown category", map[string]any{"category": val})
		}
		query.Category = &category
	}
	if val := c.Query("priority"); val != "" {
		priority := domain.TicketPriority(val)
		if !priority.IsValid() {
			return query, apperrors.NewValidationError("unknown priority", map[string]any{"priority": val})
		}
		query.Priority = &priority
	}
	if val := c.Query("departmentId"); val != "" {
		query.DepartmentID = &val
	}
	if val := c.Query("assignedTo"); val != "" {
		query.AssignedTo = &val
	}
	if val := c.Query("search"); val != "" {
		query.SearchTerm = &val
	}
	query.CreatedFrom = parseTime(c.Query("startDate"))
	query.CreatedTo = parseTime(c.Query("endDate"))
	return query, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
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
