package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

type AmenityHandler struct {
	service AmenityServiceInterface
}

func NewAmenityHandler(s AmenityServiceInterface) *AmenityHandler {
	return &AmenityHandler{service: s}
}

type AmenityRequest struct {
	Name        string      `json:"name" validate:"required" example:"Breakfast"`
	Description string      `json:"description"`
	Surcharge   money.Money `json:"additional_cost" swaggertype:"string" example:"15.50"`
}

type AmenityResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Surcharge   money.Money `json:"additional_cost" swaggertype:"string" example:"15.50"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toAmenityResponse(a *amenity.Amenity) AmenityResponse {
	return AmenityResponse{
		ID: a.ID, Name: a.Name, Description: a.Description, Surcharge: a.Surcharge,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func toAmenityResponses(list []*amenity.Amenity) []AmenityResponse {
	resp := make([]AmenityResponse, len(list))
	for i, a := range list {
		resp[i] = toAmenityResponse(a)
	}
	return resp
}

func (req AmenityRequest) input() application.AmenityInput {
	return application.AmenityInput{Name: req.Name, Description: req.Description, Surcharge: req.Surcharge}
}

// Create godoc
// @Summary アメニティを作成
// @Tags amenities
// @Accept json
// @Produce json
// @Param request body AmenityRequest true "アメニティ情報"
// @Success 201 {object} AmenityResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /amenities [post]
func (h *AmenityHandler) Create(c echo.Context) error {
	var req AmenityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.service.CreateAmenity(c.Request().Context(), req.input())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toAmenityResponse(a))
}

func (h *AmenityHandler) GetByID(c echo.Context) error {
	a, err := h.service.GetAmenity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toAmenityResponse(a))
}

func (h *AmenityHandler) List(c echo.Context) error {
	list, err := h.service.ListAmenities(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toAmenityResponses(list))
}

// Update godoc
// @Summary アメニティを更新
// @Description 追加料金を変更すると、割り当て済みの全部屋の1泊料金に差分が反映されます
// @Tags amenities
// @Accept json
// @Produce json
// @Param id path string true "アメニティID"
// @Param request body AmenityRequest true "アメニティ情報"
// @Success 200 {object} AmenityResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /amenities/{id} [put]
func (h *AmenityHandler) Update(c echo.Context) error {
	var req AmenityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.service.UpdateAmenity(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toAmenityResponse(a))
}

func (h *AmenityHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteAmenity(c.Request().Context(), c.Param("id")); err != nil {
		return api.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign godoc
// @Summary 部屋にアメニティを割り当て
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Param amenity_id path string true "アメニティID"
// @Success 200 {object} RoomResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id}/amenities/{amenity_id} [post]
func (h *AmenityHandler) Assign(c echo.Context) error {
	r, err := h.service.AssignAmenity(c.Request().Context(), c.Param("id"), c.Param("amenity_id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(r))
}

// Unassign godoc
// @Summary 部屋からアメニティを外す
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Param amenity_id path string true "アメニティID"
// @Success 200 {object} RoomResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rooms/{id}/amenities/{amenity_id} [delete]
func (h *AmenityHandler) Unassign(c echo.Context) error {
	r, err := h.service.UnassignAmenity(c.Request().Context(), c.Param("id"), c.Param("amenity_id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(r))
}

// Register はアメニティ関連のルートを登録する
func (h *AmenityHandler) Register(g *echo.Group) {
	g.POST("/amenities", h.Create)
	g.GET("/amenities", h.List)
	g.GET("/amenities/:id", h.GetByID)
	g.PUT("/amenities/:id", h.Update)
	g.DELETE("/amenities/:id", h.Delete)
	g.POST("/rooms/:id/amenities/:amenity_id", h.Assign)
	g.DELETE("/rooms/:id/amenities/:amenity_id", h.Unassign)
}
