package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
)

type ClientHandler struct {
	service ClientServiceInterface
}

func NewClientHandler(s ClientServiceInterface) *ClientHandler {
	return &ClientHandler{service: s}
}

type ClientRequest struct {
	FirstName string `json:"first_name" example:"Hanako"`
	LastName  string `json:"last_name" example:"Yamada"`
	Email     string `json:"email" example:"hanako@example.com"`
	Phone     string `json:"phone" example:"+819012345678"`
	// 更新時に空の場合は既存のパスワードを維持する
	Password string `json:"password,omitempty"`
}

// ClientResponse はパスワードハッシュを含まない
type ClientResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientResponse(cl *client.Client) ClientResponse {
	return ClientResponse{
		ID: cl.ID, FirstName: cl.FirstName, LastName: cl.LastName,
		Email: cl.Email, Phone: cl.Phone, CreatedAt: cl.CreatedAt, UpdatedAt: cl.UpdatedAt,
	}
}

func (req ClientRequest) input() application.ClientInput {
	return application.ClientInput{
		FirstName: req.FirstName, LastName: req.LastName, Email: req.Email,
		Phone: req.Phone, Password: req.Password,
	}
}

// Create godoc
// @Summary 顧客を登録
// @Tags clients
// @Accept json
// @Produce json
// @Param request body ClientRequest true "顧客情報"
// @Success 201 {object} ClientResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req ClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.CreateClient(c.Request().Context(), req.input())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusCreated, toClientResponse(cl))
}

func (h *ClientHandler) GetByID(c echo.Context) error {
	cl, err := h.service.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

func (h *ClientHandler) List(c echo.Context) error {
	list, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return api.MapError(err)
	}
	resp := make([]ClientResponse, len(list))
	for i, cl := range list {
		resp[i] = toClientResponse(cl)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) Update(c echo.Context) error {
	var req ClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.UpdateClient(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return api.MapError(err)
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Delete godoc
// @Summary 顧客を削除
// @Tags clients
// @Param id path string true "顧客ID"
// @Success 204
// @Failure 400 {object} api.ErrorResponse "予約がある顧客"
// @Failure 404 {object} api.ErrorResponse
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return api.MapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register は顧客関連のルートを登録する
func (h *ClientHandler) Register(g *echo.Group) {
	g.POST("/clients", h.Create)
	g.GET("/clients", h.List)
	g.GET("/clients/:id", h.GetByID)
	g.PUT("/clients/:id", h.Update)
	g.DELETE("/clients/:id", h.Delete)
}
