package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/domainerr"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
)

const internalErrorMessage = "内部サーバーエラー"

// errorStatuses はドメインのエラーと HTTP ステータスの対応表
// レスポンスにはラップ前のエラーのメッセージを使う
var errorStatuses = []struct {
	target error
	status int
}{
	{client.ErrClientNotFound, http.StatusNotFound},
	{room.ErrRoomNotFound, http.StatusNotFound},
	{amenity.ErrAmenityNotFound, http.StatusNotFound},
	{reservation.ErrReservationNotFound, http.StatusNotFound},
	{payment.ErrPaymentNotFound, http.StatusNotFound},

	{application.ErrRoomLocked, http.StatusConflict},

	{reservation.ErrRoomAlreadyBooked, http.StatusBadRequest},
	{reservation.ErrDatesRequired, http.StatusBadRequest},
	{reservation.ErrCheckInNotBeforeCheckOut, http.StatusBadRequest},
	{reservation.ErrInvalidStatus, http.StatusBadRequest},
	{reservation.ErrClientIDRequired, http.StatusBadRequest},
	{reservation.ErrRoomIDRequired, http.StatusBadRequest},

	{room.ErrRoomNumberExists, http.StatusBadRequest},
	{room.ErrRoomHasReservations, http.StatusBadRequest},
	{room.ErrInvalidRoomNumber, http.StatusBadRequest},
	{room.ErrInvalidRate, http.StatusBadRequest},
	{room.ErrInvalidRoomType, http.StatusBadRequest},
	{room.ErrInvalidRoomCount, http.StatusBadRequest},
	{room.ErrAmenityAlreadyAssigned, http.StatusBadRequest},
	{room.ErrAmenityNotAssigned, http.StatusBadRequest},
	{room.ErrNoGuests, http.StatusBadRequest},
	{room.ErrSingleRoomCapacity, http.StatusBadRequest},
	{room.ErrDoubleRoomCapacity, http.StatusBadRequest},
	{room.ErrTwinRoomCapacity, http.StatusBadRequest},
	{room.ErrDeluxeRoomCapacity, http.StatusBadRequest},

	{amenity.ErrAmenityNameExists, http.StatusBadRequest},
	{amenity.ErrNameRequired, http.StatusBadRequest},
	{amenity.ErrNameTooLong, http.StatusBadRequest},
	{amenity.ErrDescriptionTooLong, http.StatusBadRequest},
	{amenity.ErrNegativeSurcharge, http.StatusBadRequest},

	{client.ErrEmailExists, http.StatusBadRequest},
	{client.ErrClientHasReservations, http.StatusBadRequest},
	{client.ErrClientHasPayments, http.StatusBadRequest},
	{client.ErrInvalidFirstName, http.StatusBadRequest},
	{client.ErrInvalidLastName, http.StatusBadRequest},
	{client.ErrEmailRequired, http.StatusBadRequest},
	{client.ErrInvalidEmail, http.StatusBadRequest},
	{client.ErrInvalidPhone, http.StatusBadRequest},
	{client.ErrPasswordRequired, http.StatusBadRequest},
	{client.ErrPasswordTooLong, http.StatusBadRequest},

	{payment.ErrInvalidCardNumber, http.StatusBadRequest},
	{payment.ErrPaymentDateRequired, http.StatusBadRequest},
	{payment.ErrFuturePaymentDate, http.StatusBadRequest},
	{payment.ErrInvalidAmount, http.StatusBadRequest},
	{payment.ErrInvalidStatus, http.StatusBadRequest},
	{payment.ErrClientIDRequired, http.StatusBadRequest},
	{payment.ErrReservationIDRequired, http.StatusBadRequest},

	{money.ErrInvalidAmount, http.StatusBadRequest},

	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{context.Canceled, http.StatusServiceUnavailable},
}

// MapError はサービス層のエラーを HTTP エラーに変換する
// 値を含むドメインエラーはそのメッセージを使う
// 対応表にないエラーは 500 とし、詳細は Internal に残してレスポンスには含めない
func MapError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, e := range errorStatuses {
		if !errors.Is(err, e.target) {
			continue
		}
		message := e.target.Error()
		var detailed *domainerr.Error
		if errors.As(err, &detailed) && errors.Is(detailed, e.target) {
			message = detailed.Error()
		}
		return echo.NewHTTPError(e.status, message).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}
