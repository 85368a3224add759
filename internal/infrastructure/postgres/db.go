package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-hotel-reservation/internal/config"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"

	fkPaymentsClient = "fk_payments_client"
)

// NewConnection はPostgreSQLへの接続を作成する
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
	}

	// 接続プール設定
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Ping はデータベース接続を確認する
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// pgCode は PostgreSQL のエラーコードを返す。PostgreSQL 由来でなければ空文字
func pgCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

// pgConstraint は制約違反となった制約名を返す
func pgConstraint(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Constraint
	}
	return ""
}

// validID は id が UUID として解釈できるかを返す
// 解釈できない ID の行は存在しないため、問い合わせずに該当なしとする
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isNoRows は該当行なし、または ID の形式不正による失敗かを返す
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidText
}

// dateParam は DATE 列と比較する値をタイムゾーンに依存しない形式で渡す
func dateParam(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// queryer は *sqlx.DB と *sqlx.Tx の共通部分
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
