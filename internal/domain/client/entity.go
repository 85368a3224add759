package client

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var phonePattern = regexp.MustCompile(`^(\+\d{1,3}[- ]?)?\d{10}$`)

// Client は顧客エンティティを表す
type Client struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewClient は新しい顧客を作成する。パスワードは SetPassword で設定する
func NewClient(firstName, lastName, email, phone string) *Client {
	now := time.Now()
	return &Client{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     normalizeEmail(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は顧客の検証を行う
func (c *Client) Validate() error {
	if n := utf8.RuneCountInString(c.FirstName); n < 2 || n > 50 {
		return ErrInvalidFirstName
	}
	if c.LastName != "" {
		if n := utf8.RuneCountInString(c.LastName); n < 2 || n > 50 {
			return ErrInvalidLastName
		}
	}
	if c.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return ErrInvalidEmail
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return ErrInvalidPhone
	}
	if c.PasswordHash == "" {
		return ErrPasswordRequired
	}
	return nil
}

// UpdateProfile はプロフィールを更新する
func (c *Client) UpdateProfile(firstName, lastName, email, phone string) {
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.Email = normalizeEmail(email)
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = time.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
