package domainerr

import "fmt"

// Error は番兵エラーに対象の値を含めたメッセージを持たせる
// errors.Is では元の番兵エラーと一致する
type Error struct {
	sentinel error
	message  string
}

func New(sentinel error, format string, args ...interface{}) *Error {
	return &Error{sentinel: sentinel, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.sentinel }
