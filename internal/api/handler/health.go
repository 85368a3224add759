package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Checker は依存先の疎通確認を行う
type Checker func(ctx context.Context) error

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	checks map[string]Checker
}

// NewHealthHandler はHealthHandlerを作成する
// checks は "database" などの名前ごとの疎通確認で、nil の場合は常に ok を返す
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションと依存先（DB・Redis）の健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Timestamp: time.Now().Format(time.RFC3339)}
	code := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if resp.Components == nil {
			resp.Components = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			resp.Components[name] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "up"
	}
	return c.JSON(code, resp)
}
