package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func createRoom(t *testing.T, s *TestServer, number, rate, typ string) string {
	t.Helper()
	rec := s.Request(http.MethodPost, "/api/v1/rooms", map[string]interface{}{
		"room_number": number, "rate": rate, "type": typ,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec.Body.Bytes())["id"].(string)
}

func createClient(t *testing.T, s *TestServer, email string) string {
	t.Helper()
	rec := s.Request(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"first_name": "Hanako", "last_name": "Yamada", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec.Body.Bytes())["id"].(string)
}

func reserve(s *TestServer, clientID, roomID, in, out string, guests int) (int, map[string]interface{}) {
	rec := s.Request(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"client_id": clientID, "room_id": roomID, "check_in": in, "check_out": out, "guests": guests,
	})
	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	s := getTestServer(t)

	rec := s.Request(http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec.Body.Bytes())
	assert.Equal(t, "ok", resp["status"])
}

// TestE2E_CompleteStayJourney は部屋登録から支払いまでの流れをテスト
func TestE2E_CompleteStayJourney(t *testing.T) {
	s := getTestServer(t)

	var roomID, clientID, reservationID, paymentID string

	t.Run("部屋と顧客を登録", func(t *testing.T) {
		roomID = createRoom(t, s, "101", "150.00", "DOUBLE")
		clientID = createClient(t, s, "hanako@example.com")
	})

	t.Run("6泊の予約を作成", func(t *testing.T) {
		code, resp := reserve(s, clientID, roomID, "2030-12-01", "2030-12-07", 2)
		require.Equal(t, http.StatusCreated, code, resp)

		reservationID = resp["id"].(string)
		assert.Equal(t, "900.00", resp["total_price"])
		assert.Equal(t, "UNCONFIRMED", resp["status"])
	})

	t.Run("重なる期間の予約は400", func(t *testing.T) {
		other := createClient(t, s, "taro@example.com")
		code, resp := reserve(s, other, roomID, "2030-12-06", "2030-12-08", 1)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("チェックアウト日からの予約は可能", func(t *testing.T) {
		code, resp := reserve(s, clientID, roomID, "2030-12-07", "2030-12-08", 1)
		require.Equal(t, http.StatusCreated, code, resp)
		assert.Equal(t, "150.00", resp["total_price"])
	})

	t.Run("定員超過は400", func(t *testing.T) {
		code, _ := reserve(s, clientID, roomID, "2031-01-01", "2031-01-02", 3)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("予約済み日付を取得", func(t *testing.T) {
		rec := s.Request(http.MethodGet, fmt.Sprintf("/api/v1/rooms/%s/unavailable-dates", roomID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		dates := decode(t, rec.Body.Bytes())["dates"].([]interface{})
		require.Len(t, dates, 7)
		assert.Equal(t, "2030-12-01", dates[0])
		assert.Equal(t, "2030-12-07", dates[6])
	})

	t.Run("期間指定の検索では予約済みの部屋を除外", func(t *testing.T) {
		createRoom(t, s, "102", "120.00", "DOUBLE")

		rec := s.Request(http.MethodGet, "/api/v1/rooms/search?type=DOUBLE&check_in=2030-12-03&check_out=2030-12-05", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec.Body.Bytes())
		rooms := resp["rooms"].([]interface{})
		require.Len(t, rooms, 1)
		assert.Equal(t, "102", rooms[0].(map[string]interface{})["room_number"])
		assert.Equal(t, float64(1), resp["total"])
	})

	t.Run("支払いで予約が確定する", func(t *testing.T) {
		rec := s.Request(http.MethodPost, "/api/v1/payments", map[string]interface{}{
			"client_id": clientID, "reservation_id": reservationID,
			"card_number": "4111111111111111", "payment_date": time.Now().UTC().Format("2006-01-02"),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decode(t, rec.Body.Bytes())
		paymentID = resp["id"].(string)
		assert.Equal(t, "900.00", resp["amount"])
		assert.Equal(t, "************1111", resp["card_number"])

		rec = s.Request(http.MethodGet, "/api/v1/reservations/"+reservationID, nil)
		assert.Equal(t, "CONFIRMED", decode(t, rec.Body.Bytes())["status"])
	})

	t.Run("予約がある部屋と顧客は削除できない", func(t *testing.T) {
		rec := s.Request(http.MethodDelete, "/api/v1/rooms/"+roomID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, fmt.Sprintf("Room with ID: %s has active reservations and cannot be deleted.", roomID), decode(t, rec.Body.Bytes())["error"])

		rec = s.Request(http.MethodDelete, "/api/v1/clients/"+clientID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, fmt.Sprintf("Client with ID: %s has active reservations and cannot be deleted.", clientID), decode(t, rec.Body.Bytes())["error"])
	})

	t.Run("支払いを削除すると予約は未確定に戻る", func(t *testing.T) {
		rec := s.Request(http.MethodDelete, "/api/v1/payments/"+paymentID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.Request(http.MethodGet, "/api/v1/reservations/"+reservationID, nil)
		assert.Equal(t, "UNCONFIRMED", decode(t, rec.Body.Bytes())["status"])
	})

	t.Run("顧客の予約一覧", func(t *testing.T) {
		rec := s.Request(http.MethodGet, fmt.Sprintf("/api/v1/clients/%s/reservations", clientID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 2)
	})

	t.Run("予約を削除すると同じ期間を再予約できる", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, s.Request(http.MethodDelete, "/api/v1/reservations/"+reservationID, nil).Code)

		code, resp := reserve(s, clientID, roomID, "2030-12-01", "2030-12-07", 2)
		assert.Equal(t, http.StatusCreated, code, resp)
	})
}

// TestE2E_AmenityPricing はアメニティの追加料金が部屋の料金に反映されることをテスト
func TestE2E_AmenityPricing(t *testing.T) {
	s := getTestServer(t)

	roomID := createRoom(t, s, "201", "100.00", "SINGLE")

	rec := s.Request(http.MethodPost, "/api/v1/amenities", map[string]interface{}{
		"name": "Breakfast", "additional_cost": "15.50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	amenityID := decode(t, rec.Body.Bytes())["id"].(string)

	rate := func() string {
		rec := s.Request(http.MethodGet, "/api/v1/rooms/"+roomID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decode(t, rec.Body.Bytes())["rate"].(string)
	}

	t.Run("割り当てで追加料金を加算", func(t *testing.T) {
		rec := s.Request(http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/amenities/%s", roomID, amenityID), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "115.50", rate())
	})

	t.Run("名前の重複は400", func(t *testing.T) {
		rec := s.Request(http.MethodPost, "/api/v1/amenities", map[string]interface{}{
			"name": "Breakfast", "additional_cost": "5.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Amenity with name 'Breakfast' already exists.", decode(t, rec.Body.Bytes())["error"])
	})

	t.Run("二重の割り当ては400", func(t *testing.T) {
		rec := s.Request(http.MethodPost, fmt.Sprintf("/api/v1/rooms/%s/amenities/%s", roomID, amenityID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("追加料金の変更は差分で反映", func(t *testing.T) {
		rec := s.Request(http.MethodPut, "/api/v1/amenities/"+amenityID, map[string]interface{}{
			"name": "Breakfast", "additional_cost": "20.00",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "120.00", rate())
	})

	t.Run("アメニティ削除で追加料金を差し引く", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, s.Request(http.MethodDelete, "/api/v1/amenities/"+amenityID, nil).Code)
		assert.Equal(t, "100.00", rate())
	})
}

// TestE2E_ConcurrentReservations は同じ部屋・期間への同時予約で1件のみ成功することをテスト
func TestE2E_ConcurrentReservations(t *testing.T) {
	s := getTestServer(t)

	roomID := createRoom(t, s, "301", "80.00", "DELUXE")
	clientID := createClient(t, s, "concurrent@example.com")

	const workers = 10
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], _ = reserve(s, clientID, roomID, "2030-08-01", "2030-08-04", 2)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest, http.StatusConflict:
		default:
			t.Errorf("想定外のステータス: %d", code)
		}
	}
	assert.Equal(t, 1, created)
}

// TestE2E_Validation は入力エラーのレスポンスをテスト
func TestE2E_Validation(t *testing.T) {
	s := getTestServer(t)

	t.Run("存在しない部屋は404", func(t *testing.T) {
		rec := s.Request(http.MethodGet, "/api/v1/rooms/00000000-0000-0000-0000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Room not found!", decode(t, rec.Body.Bytes())["error"])
	})

	t.Run("UUIDでないIDは404", func(t *testing.T) {
		rec := s.Request(http.MethodGet, "/api/v1/rooms/abc", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Room not found!", decode(t, rec.Body.Bytes())["error"])

		roomID := createRoom(t, s, "601", "90.00", "TWIN")
		code, resp := reserve(s, "x", roomID, "2030-05-10", "2030-05-12", 1)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Client not found!", resp["error"])
	})

	t.Run("チェックアウトがチェックイン以前は400", func(t *testing.T) {
		roomID := createRoom(t, s, "401", "90.00", "TWIN")
		clientID := createClient(t, s, "dates@example.com")

		code, _ := reserve(s, clientID, roomID, "2030-05-10", "2030-05-10", 1)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("メールアドレスの重複は400", func(t *testing.T) {
		createClient(t, s, "dup@example.com")
		rec := s.Request(http.MethodPost, "/api/v1/clients", map[string]interface{}{
			"first_name": "Taro", "last_name": "Sato", "email": "dup@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Account with email dup@example.com already exists.", decode(t, rec.Body.Bytes())["error"])
	})

	t.Run("部屋番号の重複は400", func(t *testing.T) {
		createRoom(t, s, "501", "90.00", "TWIN")
		rec := s.Request(http.MethodPost, "/api/v1/rooms", map[string]interface{}{
			"room_number": "501", "rate": "90.00", "type": "TWIN",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
