package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
)

type RoomHandler struct {
	service      RoomServiceInterface
	reservations ReservationServiceInterface
}

func NewRoomHandler(s RoomServiceInterface, rs ReservationServiceInterface) *RoomHandler {
	return &RoomHandler{service: s, reservations: rs}
}

type CreateRoomRequest struct {
	Number      string      `json:"room_number" validate:"required" example:"101"`
	Rate        money.Money `json:"rate" swaggertype:"string" example:"150.00"`
	Type        string      `json:"type" validate:"required" example:"DOUBLE"`
	Description string      `json:"description" validate:"max=500"`
}

type CreateRoomsRequest struct {
	StartNumber int         `json:"start_number" validate:"min=0" example:"201"`
	Count       int         `json:"count" example:"10"`
	Rate        money.Money `json:"rate" swaggertype:"string" example:"99.90"`
	Type        string      `json:"type" validate:"required" example:"TWIN"`
	Description string      `json:"description" validate:"max=500"`
}

type UpdateRoomRequest struct {
	Number      string      `json:"room_number" validate:"required" example:"101"`
	Rate        money.Money `json:"rate" swaggertype:"string" example:"180.00"`
	Type        string      `json:"type" validate:"required" example:"DELUXE"`
	Available   *bool       `json:"available,omitempty"`
	Description string      `json:"description" validate:"max=500"`
}

type RoomResponse struct {
	ID          string      `json:"id"`
	Number      string      `json:"room_number"`
	Rate        money.Money `json:"rate" swaggertype:"string" example:"150.00"`
	Type        string      `json:"type"`
	Available   bool        `json:"available"`
	Description string      `json:"description,omitempty"`
	AmenityIDs  []string    `json:"amenity_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type RoomPageResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int            `json:"total"`
}

type UnavailableDatesResponse struct {
	RoomID string   `json:"room_id"`
	Dates  []string `json:"dates"`
}

func toRoomResponse(r *room.Room) RoomResponse {
	ids := r.AmenityIDs
	if ids == nil {
		ids = []string{}
	}
	return RoomResponse{
		ID: r.ID, Number: r.Number, Rate: r.Rate, Type: string(r.Type),
		Available: r.Available, Description: r.Description, AmenityIDs: ids,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toRoomResponses(rooms []*room.Room) []RoomResponse {
	resp := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		resp[i] = toRoomResponse(r)
	}
	return resp
}

// Create godoc
// @Summary 部屋を作成
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "部屋情報"
// @Success 201 {object} RoomResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.CreateRoom(c.Request().Context(), application.CreateRoomInput{
		Number: req.Number, Rate: req.Rate, Type: room.Type(req.Type), Description: req.Description,
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toRoomResponse(r))
}

// CreateBulk godoc
// @Summary 部屋を連番で一括作成
// @Description 既に存在する部屋番号はスキップし、作成した部屋のみを返します
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomsRequest true "一括作成情報"
// @Success 201 {array} RoomResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /rooms/bulk [post]
func (h *RoomHandler) CreateBulk(c echo.Context) error {
	var req CreateRoomsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rooms, err := h.service.CreateRooms(c.Request().Context(), application.CreateRoomsInput{
		StartNumber: req.StartNumber, Count: req.Count, Rate: req.Rate,
		Type: room.Type(req.Type), Description: req.Description,
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toRoomResponses(rooms))
}

// GetByID godoc
// @Summary 部屋を取得
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(r))
}

// List godoc
// @Summary 部屋一覧を取得
// @Tags rooms
// @Produce json
// @Success 200 {array} RoomResponse
// @Router /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponses(rooms))
}

// Search godoc
// @Summary 部屋を検索
// @Description 指定期間に重なる予約のある部屋は除外されます。料金順に並び、room_number で同順位を並べます
// @Tags rooms
// @Produce json
// @Param type query string false "部屋タイプ"
// @Param min_rate query string false "最低料金"
// @Param max_rate query string false "最高料金"
// @Param available query bool false "空きフラグ"
// @Param check_in query string false "チェックイン日 (YYYY-MM-DD)"
// @Param check_out query string false "チェックアウト日 (YYYY-MM-DD)"
// @Param sort query string false "asc または desc" default(asc)
// @Param page query int false "ページ (0始まり)" default(0)
// @Param size query int false "件数" default(5)
// @Success 200 {object} RoomPageResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /rooms/search [get]
func (h *RoomHandler) Search(c echo.Context) error {
	criteria, err := searchCriteria(c)
	if err != nil {
		return err
	}
	page, err := h.service.SearchRooms(c.Request().Context(), criteria)
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, RoomPageResponse{
		Rooms: toRoomResponses(page.Rooms), Page: page.Page, Size: page.Size, Total: page.Total,
	})
}

func searchCriteria(c echo.Context) (room.SearchCriteria, error) {
	var criteria room.SearchCriteria
	var err error

	if t := c.QueryParam("type"); t != "" {
		typ := room.Type(t)
		criteria.Type = &typ
	}
	if criteria.MinRate, err = optionalMoney("min_rate", c.QueryParam("min_rate")); err != nil {
		return criteria, err
	}
	if criteria.MaxRate, err = optionalMoney("max_rate", c.QueryParam("max_rate")); err != nil {
		return criteria, err
	}
	if criteria.Available, err = optionalBool("available", c.QueryParam("available")); err != nil {
		return criteria, err
	}
	if criteria.CheckIn, err = optionalDate("check_in", c.QueryParam("check_in")); err != nil {
		return criteria, err
	}
	if criteria.CheckOut, err = optionalDate("check_out", c.QueryParam("check_out")); err != nil {
		return criteria, err
	}
	switch c.QueryParam("sort") {
	case "", "asc":
	case "desc":
		criteria.SortDesc = true
	default:
		return criteria, echo.NewHTTPError(http.StatusBadRequest, "sort must be asc or desc")
	}
	if criteria.Page, err = intQuery("page", c.QueryParam("page")); err != nil {
		return criteria, err
	}
	if criteria.Size, err = intQuery("size", c.QueryParam("size")); err != nil {
		return criteria, err
	}
	return criteria, nil
}

// Update godoc
// @Summary 部屋を更新
// @Description rate はアメニティの追加料金込みの1泊料金として置き換えます
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "部屋ID"
// @Param request body UpdateRoomRequest true "部屋情報"
// @Success 200 {object} RoomResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(c echo.Context) error {
	var req UpdateRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.UpdateRoom(c.Request().Context(), c.Param("id"), application.UpdateRoomInput{
		Number: req.Number, Rate: req.Rate, Type: room.Type(req.Type),
		Available: req.Available, Description: req.Description,
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(r))
}

// Delete godoc
// @Summary 部屋を削除
// @Tags rooms
// @Param id path string true "部屋ID"
// @Success 204
// @Failure 400 {object} api.ErrorResponse "予約がある部屋"
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteRoom(c.Request().Context(), c.Param("id")); err != nil {
		return api.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll godoc
// @Summary 予約のない部屋を全て削除
// @Tags rooms
// @Produce json
// @Success 200 {object} map[string]int
// @Router /rooms [delete]
func (h *RoomHandler) DeleteAll(c echo.Context) error {
	n, err := h.service.DeleteAllRooms(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": n})
}

// UnavailableDates godoc
// @Summary 部屋の予約済み日付を取得
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Success 200 {object} UnavailableDatesResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id}/unavailable-dates [get]
func (h *RoomHandler) UnavailableDates(c echo.Context) error {
	id := c.Param("id")
	dates, err := h.reservations.UnavailableDates(c.Request().Context(), id)
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, UnavailableDatesResponse{RoomID: id, Dates: formatDates(dates)})
}

// ListAmenities godoc
// @Summary 部屋のアメニティ一覧を取得
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Success 200 {array} AmenityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id}/amenities [get]
func (h *RoomHandler) ListAmenities(c echo.Context) error {
	list, err := h.service.ListRoomAmenities(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toAmenityResponses(list))
}

// Register は部屋関連のルートを登録する
func (h *RoomHandler) Register(g *echo.Group) {
	g.POST("/rooms", h.Create)
	g.POST("/rooms/bulk", h.CreateBulk)
	g.GET("/rooms", h.List)
	g.GET("/rooms/search", h.Search)
	g.GET("/rooms/:id", h.GetByID)
	g.PUT("/rooms/:id", h.Update)
	g.DELETE("/rooms", h.DeleteAll)
	g.DELETE("/rooms/:id", h.Delete)
	g.GET("/rooms/:id/unavailable-dates", h.UnavailableDates)
	g.GET("/rooms/:id/amenities", h.ListAmenities)
}
