package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ReservationRequest struct {
	ClientID string `json:"client_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RoomID   string `json:"room_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	CheckIn  string `json:"check_in" example:"2026-12-01"`
	CheckOut string `json:"check_out" example:"2026-12-07"`
	Guests   int    `json:"guests" example:"2"`
	// 更新時のみ有効。空の場合は現在の状態を維持する
	Status string `json:"status,omitempty" example:"CONFIRMED"`
}

type ReservationResponse struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	RoomID     string      `json:"room_id"`
	CheckIn    string      `json:"check_in" example:"2026-12-01"`
	CheckOut   string      `json:"check_out" example:"2026-12-07"`
	Guests     int         `json:"guests"`
	TotalPrice money.Money `json:"total_price" swaggertype:"string" example:"900.00"`
	Status     string      `json:"status" example:"UNCONFIRMED"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, ClientID: r.ClientID, RoomID: r.RoomID,
		CheckIn: r.CheckIn.Format(dateLayout), CheckOut: r.CheckOut.Format(dateLayout),
		Guests: r.Guests, TotalPrice: r.TotalPrice, Status: string(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toReservationResponses(rs []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(rs))
	for i, r := range rs {
		resp[i] = toReservationResponse(r)
	}
	return resp
}

func (req ReservationRequest) stay() (time.Time, time.Time, error) {
	in, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// Create godoc
// @Summary 予約を作成
// @Description 部屋の予約を未確定状態で作成します。料金は 1泊料金 × 泊数 です
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body ReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse "期間の重複・定員超過・日付不正"
// @Failure 404 {object} api.ErrorResponse "顧客または部屋が存在しない"
// @Failure 409 {object} api.ErrorResponse "同じ部屋を処理中"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req ReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, out, err := req.stay()
	if err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		ClientID: req.ClientID, RoomID: req.RoomID, CheckIn: in, CheckOut: out, Guests: req.Guests,
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *ReservationHandler) List(c echo.Context) error {
	rs, err := h.service.ListReservations(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(rs))
}

// ListByClient godoc
// @Summary 顧客の予約一覧を取得
// @Tags reservations
// @Produce json
// @Param id path string true "顧客ID"
// @Success 200 {array} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /clients/{id}/reservations [get]
func (h *ReservationHandler) ListByClient(c echo.Context) error {
	rs, err := h.service.ListClientReservations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(rs))
}

// Update godoc
// @Summary 予約を更新
// @Description 作成時と同じ検証を行い料金を再計算します。重複判定に自分自身は含みません
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body ReservationRequest true "予約情報"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	var req ReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, out, err := req.stay()
	if err != nil {
		return err
	}
	r, err := h.service.UpdateReservation(c.Request().Context(), c.Param("id"), application.UpdateReservationInput{
		ClientID: req.ClientID, RoomID: req.RoomID, CheckIn: in, CheckOut: out,
		Guests: req.Guests, Status: reservation.Status(req.Status),
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Delete godoc
// @Summary 予約を削除
// @Tags reservations
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteReservation(c.Request().Context(), c.Param("id")); err != nil {
		return api.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register は予約関連のルートを登録する
func (h *ReservationHandler) Register(g *echo.Group) {
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.List)
	g.GET("/reservations/:id", h.GetByID)
	g.PUT("/reservations/:id", h.Update)
	g.DELETE("/reservations/:id", h.Delete)
	g.GET("/clients/:id/reservations", h.ListByClient)
}
