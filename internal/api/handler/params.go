package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

const dateLayout = "2006-01-02"

// parseDate は YYYY-MM-DD 形式の日付を UTC 0時として解釈する。空文字はゼロ値を返す
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func optionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalMoney(field, s string) (*money.Money, error) {
	if s == "" {
		return nil, nil
	}
	m, err := money.Parse(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, field+" "+err.Error())
	}
	return &m, nil
}

func optionalBool(field, s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, field+" must be true or false")
	}
	return &b, nil
}

func intQuery(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, field+" must be an integer")
	}
	return n, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

// bind はリクエストボディを読み込み、タグに基づく検証を行う
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	return c.Validate(req)
}
