package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/internal/errs"
	"github.com/equiplend/lending-service/internal/model"
	"github.com/equiplend/lending-service/pkg/auth"
	md "github.com/equiplend/lending-service/pkg/middleware"
	"github.com/equiplend/lending-service/pkg/validate"
)

type Handler struct {
	lendingSvc LendingService
	log        *zap.Logger
}

func New(lendingSrv LendingService, log *zap.Logger) *Handler {
	return &Handler{
		lendingSvc: lendingSrv,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)

	api.GET("/equipment", h.GetEquipmentList)
	api.GET("/equipment/:equipmentUid", h.GetEquipment)
	api.POST("/equipment", h.CreateEquipment, md.RequireRoles(auth.RoleAdmin))
	api.PUT("/equipment/:equipmentUid", h.UpdateEquipment, md.RequireRoles(auth.RoleAdmin))
	api.DELETE("/equipment/:equipmentUid", h.DeleteEquipment, md.RequireRoles(auth.RoleAdmin))

	api.POST("/requests", h.CreateRequest)
	api.GET("/requests", h.GetRequests)
	api.GET("/requests/overdue", h.GetOverdueRequests)
	api.GET("/requests/:requestUid", h.GetRequest)
	api.POST("/requests/:requestUid/approve", h.ApproveRequest, md.RequireRoles(auth.RoleStaff, auth.RoleAdmin))
	api.POST("/requests/:requestUid/reject", h.RejectRequest, md.RequireRoles(auth.RoleStaff, auth.RoleAdmin))
	api.POST("/requests/:requestUid/return", h.ReturnRequest, md.RequireRoles(auth.RoleStaff, auth.RoleAdmin))

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) GetEquipmentList(c echo.Context) error {
	ctx := c.Request().Context()

	filter := model.EquipmentFilter{
		Category: model.Category(c.QueryParam("category")),
		Keyword:  c.QueryParam("keyword"),
	}
	if availableParam := c.QueryParam("available"); availableParam != "" {
		available, err := strconv.ParseBool(availableParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("available is invalid"))
		}
		filter.AvailableOnly = available
	}

	items, err := h.lendingSvc.ListEquipment(ctx, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetEquipment(c echo.Context) error {
	eq, err := h.lendingSvc.GetEquipment(c.Request().Context(), c.Param("equipmentUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, eq)
}

func (h *Handler) CreateEquipment(c echo.Context) error {
	var spec model.EquipmentSpec
	if err := c.Bind(&spec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(spec); err != nil {
		return err
	}
	eq, err := h.lendingSvc.CreateEquipment(c.Request().Context(), spec)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, eq)
}

func (h *Handler) UpdateEquipment(c echo.Context) error {
	var spec model.EquipmentSpec
	if err := c.Bind(&spec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(spec); err != nil {
		return err
	}
	eq, err := h.lendingSvc.UpdateEquipment(c.Request().Context(), c.Param("equipmentUid"), spec)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, eq)
}

func (h *Handler) DeleteEquipment(c echo.Context) error {
	if err := h.lendingSvc.DeleteEquipment(c.Request().Context(), c.Param("equipmentUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var req model.CreateBorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userName, err := auth.Username(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.Username = userName

	if err := c.Validate(req); err != nil {
		return err
	}

	br, err := h.lendingSvc.SubmitRequest(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, br)
}

// GetRequests scopes STUDENT callers to their own requests server-side;
// a client-side filter is not a security boundary.
func (h *Handler) GetRequests(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.Username(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	role, err := auth.UserRole(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	requester := c.QueryParam("requester")
	if role == auth.RoleStudent {
		requester = userName
	}

	items, err := h.lendingSvc.ListRequests(ctx, requester)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetRequest(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.Username(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	role, err := auth.UserRole(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	br, err := h.lendingSvc.GetRequest(ctx, c.Param("requestUid"))
	if err != nil {
		return httpError(err)
	}
	if role == auth.RoleStudent && br.Username != userName {
		return echo.NewHTTPError(http.StatusForbidden, "AccessDenied")
	}
	return c.JSON(http.StatusOK, br)
}

// GetOverdueRequests scopes STUDENT callers to their own overdue requests,
// same as GetRequests. STAFF and ADMIN see every borrower unless they
// filter by requester.
func (h *Handler) GetOverdueRequests(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.Username(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	role, err := auth.UserRole(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	requester := c.QueryParam("requester")
	if role == auth.RoleStudent {
		requester = userName
	}

	items, err := h.lendingSvc.ListOverdue(ctx, time.Now(), requester)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ApproveRequest(c echo.Context) error {
	return h.decide(c, h.lendingSvc.ApproveRequest)
}

func (h *Handler) RejectRequest(c echo.Context) error {
	return h.decide(c, h.lendingSvc.RejectRequest)
}

func (h *Handler) ReturnRequest(c echo.Context) error {
	br, err := h.lendingSvc.ReturnRequest(c.Request().Context(), c.Param("requestUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, br)
}

func (h *Handler) decide(c echo.Context, action func(ctx context.Context, requestUid, approver string) (model.BorrowRequest, error)) error {
	ctx := c.Request().Context()
	approver, err := auth.Username(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	br, err := action(ctx, c.Param("requestUid"), approver)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, br)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrInsufficientAvailability),
		errors.Is(err, errs.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvariantViolation):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
