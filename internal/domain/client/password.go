package client

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SetPassword は平文パスワードを bcrypt でハッシュ化して保持する
func (c *Client) SetPassword(plain string) error {
	if plain == "" {
		return ErrPasswordRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword は平文パスワードがハッシュと一致するかを返す
func (c *Client) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plain)) == nil
}
