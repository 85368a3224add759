package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
)

type PaymentHandler struct {
	service PaymentServiceInterface
}

func NewPaymentHandler(s PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreatePaymentRequest struct {
	ClientID      string `json:"client_id"`
	ReservationID string `json:"reservation_id"`
	CardNumber    string `json:"card_number" example:"4111111111111111"`
	PaidOn        string `json:"payment_date" example:"2026-11-20"`
	Status        string `json:"status,omitempty" example:"COMPLETED"`
}

// UpdatePaymentRequest は指定したフィールドのみ更新する
type UpdatePaymentRequest struct {
	CardNumber *string `json:"card_number,omitempty"`
	PaidOn     *string `json:"payment_date,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type PaymentResponse struct {
	ID            string      `json:"id"`
	ClientID      string      `json:"client_id"`
	ReservationID string      `json:"reservation_id,omitempty"`
	CardNumber    string      `json:"card_number" example:"************1111"`
	PaidOn        string      `json:"payment_date" example:"2026-11-20"`
	Amount        money.Money `json:"amount" swaggertype:"string" example:"900.00"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID: p.ID, ClientID: p.ClientID, ReservationID: p.ReservationID,
		CardNumber: p.CardNumber, PaidOn: p.PaidOn.Format(dateLayout),
		Amount: p.Amount, Status: string(p.Status),
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// Create godoc
// @Summary 支払いを登録
// @Description 金額は予約の合計料金から決まり、予約は確定状態になります
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "支払い情報"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	var req CreatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	paidOn, err := parseDate("payment_date", req.PaidOn)
	if err != nil {
		return err
	}
	p, err := h.service.CreatePayment(c.Request().Context(), application.CreatePaymentInput{
		ClientID: req.ClientID, ReservationID: req.ReservationID, CardNumber: req.CardNumber,
		PaidOn: paidOn, Status: payment.Status(req.Status),
	})
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

func (h *PaymentHandler) GetByID(c echo.Context) error {
	p, err := h.service.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) List(c echo.Context) error {
	list, err := h.service.ListPayments(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	resp := make([]PaymentResponse, len(list))
	for i, p := range list {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 支払いを更新
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "支払いID"
// @Param request body UpdatePaymentRequest true "更新するフィールド"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	var req UpdatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := application.UpdatePaymentInput{CardNumber: req.CardNumber}
	if req.PaidOn != nil {
		paidOn, err := parseDate("payment_date", *req.PaidOn)
		if err != nil {
			return err
		}
		input.PaidOn = &paidOn
	}
	if req.Status != nil {
		status := payment.Status(*req.Status)
		input.Status = &status
	}
	p, err := h.service.UpdatePayment(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Delete godoc
// @Summary 支払いを削除
// @Description 紐づく予約は未確定状態に戻ります
// @Tags payments
// @Param id path string true "支払いID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePayment(c.Request().Context(), c.Param("id")); err != nil {
		return api.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register は支払い関連のルートを登録する
func (h *PaymentHandler) Register(g *echo.Group) {
	g.POST("/payments", h.Create)
	g.GET("/payments", h.List)
	g.GET("/payments/:id", h.GetByID)
	g.PUT("/payments/:id", h.Update)
	g.DELETE("/payments/:id", h.Delete)
}
