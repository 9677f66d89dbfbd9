package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/present/rest/middleware"
	"github.com/campuskit/lostfound/internal/present/rest/presenter"
	"github.com/campuskit/lostfound/internal/service"
	"github.com/campuskit/lostfound/internal/usecase"
)

type Handler struct {
	review       *usecase.ReviewUsecase
	item         *usecase.ItemUsecase
	config       *usecase.ConfigUsecase
	stats        *usecase.StatsUsecase
	account      *usecase.AccountUsecase
	announcement *usecase.AnnouncementUsecase
	signal       *service.SignalService
}

func NewHandler(
	review *usecase.ReviewUsecase,
	item *usecase.ItemUsecase,
	config *usecase.ConfigUsecase,
	stats *usecase.StatsUsecase,
	account *usecase.AccountUsecase,
	announcement *usecase.AnnouncementUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		review:       review,
		item:         item,
		config:       config,
		stats:        stats,
		account:      account,
		announcement: announcement,
		signal:       signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/publish", h.handlePublish)
	e.GET("/api/v1/review/pending", h.handleReviewPending)
	e.GET("/api/v1/review/history", h.handleReviewHistory)
	e.POST("/api/v1/review/:id/approve", h.handleReviewApprove)
	e.POST("/api/v1/review/:id/reject", h.handleReviewReject)
	e.GET("/api/v1/items", h.handleItemList)
	e.GET("/api/v1/items/:id", h.handleItemGet)
	e.POST("/api/v1/items/:id/claimed", h.handleItemClaimed)
	e.POST("/api/v1/items/:id/archive", h.handleItemArchive)
	e.PUT("/api/v1/items/:id/contact", h.handleItemContact)
	e.GET("/api/v1/statistics", h.handleStatistics)
	e.GET("/api/v1/statistics/export", h.handleStatisticsExport)
	e.GET("/api/v1/system/config", h.handleConfigGet)
	e.PUT("/api/v1/system/item-types", h.handleAddItemType)
	e.PUT("/api/v1/system/feedback-types", h.handleAddFeedbackType)
	e.PUT("/api/v1/system/claim-validity-days", h.handleSetClaimValidityDays)
	e.PUT("/api/v1/system/publish-limit", h.handleSetPublishLimit)
	e.GET("/api/v1/accounts", h.handleAccountList)
	e.POST("/api/v1/accounts", h.handleAccountCreate)
	e.PUT("/api/v1/accounts/:id", h.handleAccountUpdate)
	e.POST("/api/v1/accounts/:id/disable", h.handleAccountDisable)
	e.POST("/api/v1/accounts/:id/enable", h.handleAccountEnable)
	e.GET("/api/v1/announcements", h.handleAnnouncementList)
	e.GET("/api/v1/announcements/review-list", h.handleAnnouncementReviewList)
	e.POST("/api/v1/announcements", h.handleAnnouncementPublish)
	e.POST("/api/v1/announcements/:id/approve", h.handleAnnouncementResolve)
	e.DELETE("/api/v1/announcements/:id", h.handleAnnouncementDelete)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handlePublish(c echo.Context) error {
	ctx := c.Request().Context()

	var p domain.Posting
	if err := c.Bind(&p); err != nil {
		return presenter.BadRequest(c, err)
	}

	posting, err := h.review.Submit(ctx, p)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, posting)
}

func (h *Handler) handleReviewPending(c echo.Context) error {
	ctx := c.Request().Context()

	kind := domain.Kind(c.QueryParam("kind"))
	if !kind.Valid() {
		return presenter.BadRequestMessage(c, "kind must be lost or found")
	}

	postings, err := h.review.Pending(ctx, kind)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, postings)
}

func (h *Handler) handleReviewHistory(c echo.Context) error {
	ctx := c.Request().Context()

	records, err := h.review.History(ctx)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, records)
}

func (h *Handler) handleReviewApprove(c echo.Context) error {
	ctx := c.Request().Context()

	reviewer := middleware.StaffID(ctx)
	if reviewer == "" {
		return presenter.BadRequestMessage(c, "staff identity required")
	}

	rec, err := h.review.Approve(ctx, c.Param("id"), reviewer)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, rec)
}

func (h *Handler) handleReviewReject(c echo.Context) error {
	ctx := c.Request().Context()

	reviewer := middleware.StaffID(ctx)
	if reviewer == "" {
		return presenter.BadRequestMessage(c, "staff identity required")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	rec, err := h.review.Reject(ctx, c.Param("id"), reviewer, req.Reason)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, rec)
}

func (h *Handler) handleItemList(c echo.Context) error {
	ctx := c.Request().Context()

	kind := domain.Kind(c.QueryParam("kind"))
	if !kind.Valid() {
		return presenter.BadRequestMessage(c, "kind must be lost or found")
	}

	items, err := h.item.List(ctx, kind)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, items)
}

func (h *Handler) handleItemGet(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.item.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, item)
}

func (h *Handler) handleItemClaimed(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Version int64 `json:"version"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.item.MarkClaimed(ctx, c.Param("id"), req.Version)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, item)
}

func (h *Handler) handleItemArchive(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Method  string `json:"method"`
		Version int64  `json:"version"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.item.Archive(ctx, c.Param("id"), req.Method, req.Version)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, item)
}

func (h *Handler) handleItemContact(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		StorageLocation string `json:"storageLocation"`
		ContactPhone    string `json:"contactPhone"`
		Version         int64  `json:"version"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.item.UpdateContact(ctx, c.Param("id"), req.StorageLocation, req.ContactPhone, req.Version)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, item)
}

func statsQuery(c echo.Context) (domain.StatsDimension, usecase.StatsFilter, error) {
	dimension := domain.StatsDimension(c.QueryParam("dimension"))
	if dimension == "" {
		dimension = domain.DimensionStatus
	}

	filter := usecase.StatsFilter{
		Kind:     domain.Kind(c.QueryParam("kind")),
		Campus:   c.QueryParam("campus"),
		ItemType: c.QueryParam("itemType"),
	}

	if fromStr := c.QueryParam("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return "", usecase.StatsFilter{}, fmt.Errorf("invalid from parameter")
		}
		filter.From = parsed
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return "", usecase.StatsFilter{}, fmt.Errorf("invalid to parameter")
		}
		filter.To = parsed
	}

	return dimension, filter, nil
}

func (h *Handler) handleStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	dimension, filter, err := statsQuery(c)
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	rows, err := h.stats.Rows(ctx, dimension, filter)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, rows)
}

func (h *Handler) handleStatisticsExport(c echo.Context) error {
	ctx := c.Request().Context()

	dimension, filter, err := statsQuery(c)
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	out, err := h.stats.ExportCSV(ctx, dimension, filter)
	if err != nil {
		return presenter.Resolve(c, err)
	}

	filename := fmt.Sprintf("statistics-%s.csv", time.Now().In(domain.CampusZone).Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", out)
}

func (h *Handler) handleConfigGet(c echo.Context) error {
	ctx := c.Request().Context()

	cfg, err := h.config.Get(ctx)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, cfg)
}

func (h *Handler) handleAddItemType(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	cfg, err := h.config.AddItemType(ctx, req.Value)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, cfg)
}

func (h *Handler) handleAddFeedbackType(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	cfg, err := h.config.AddFeedbackType(ctx, req.Value)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, cfg)
}

func (h *Handler) handleSetClaimValidityDays(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Value int `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	cfg, err := h.config.SetClaimValidityDays(ctx, req.Value)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, cfg)
}

func (h *Handler) handleSetPublishLimit(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Value int `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	cfg, err := h.config.SetPublishLimit(ctx, req.Value)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, cfg)
}

func (h *Handler) handleAccountList(c echo.Context) error {
	ctx := c.Request().Context()

	query := usecase.AccountQuery{
		UserType: domain.UserType(c.QueryParam("userType")),
	}
	if usernameStr := c.QueryParam("username"); usernameStr != "" {
		username, err := strconv.ParseInt(usernameStr, 10, 64)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid username parameter")
		}
		query.Username = &username
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid page parameter")
		}
		query.Page = page
	}
	if sizeStr := c.QueryParam("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid pageSize parameter")
		}
		query.PageSize = size
	}

	page, err := h.account.List(ctx, query)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, page)
}

func (h *Handler) handleAccountCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.CreateAccountInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	id, err := h.account.Create(ctx, input)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id})
}

func (h *Handler) handleAccountUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid account id")
	}

	var input usecase.UpdateAccountInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	account, err := h.account.Update(ctx, id, input)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, account)
}

func (h *Handler) handleAccountDisable(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid account id")
	}

	var req struct {
		Duration domain.DisableDuration `json:"duration"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	account, err := h.account.Disable(ctx, id, req.Duration)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, account)
}

func (h *Handler) handleAccountEnable(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid account id")
	}

	account, err := h.account.Enable(ctx, id)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, account)
}

func (h *Handler) handleAnnouncementList(c echo.Context) error {
	ctx := c.Request().Context()

	announcements, err := h.announcement.Published(ctx)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, announcements)
}

func (h *Handler) handleAnnouncementReviewList(c echo.Context) error {
	ctx := c.Request().Context()

	announcements, err := h.announcement.ReviewList(ctx)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, announcements)
}

func (h *Handler) handleAnnouncementPublish(c echo.Context) error {
	ctx := c.Request().Context()

	var a domain.Announcement
	if err := c.Bind(&a); err != nil {
		return presenter.BadRequest(c, err)
	}

	id, err := h.announcement.Publish(ctx, a)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id})
}

func (h *Handler) handleAnnouncementResolve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid announcement id")
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	announcement, err := h.announcement.Resolve(ctx, id, req.Approve)
	if err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, announcement)
}

func (h *Handler) handleAnnouncementDelete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid announcement id")
	}

	if err := h.announcement.Delete(ctx, id); err != nil {
		return presenter.Resolve(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type   string   `json:"type"`
	Events []string `json:"events"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan domain.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Events
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Events),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
