package application

import "errors"

// ErrRoomLocked は同じ部屋の予約処理が他のリクエストで進行中の場合のエラー
var ErrRoomLocked = errors.New("The room is being processed by another request. Please retry.")
