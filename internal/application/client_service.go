package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

type ClientService struct {
	clientRepo      client.Repository
	reservationRepo reservation.Repository
}

func NewClientService(cr client.Repository, rr reservation.Repository) *ClientService {
	return &ClientService{clientRepo: cr, reservationRepo: rr}
}

type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	// Password は更新時に空ならハッシュを維持する
	Password string
}

func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*client.Client, error) {
	c := client.NewClient(input.FirstName, input.LastName, input.Email, input.Phone)
	if err := c.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("顧客を登録しました", zap.String("client_id", c.ID))
	return c, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*client.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *ClientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *ClientService) UpdateClient(ctx context.Context, id string, input ClientInput) (*client.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.UpdateProfile(input.FirstName, input.LastName, input.Email, input.Phone)
	if input.Password != "" {
		if err := c.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteClient は予約が1件もない顧客のみ削除する
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.reservationRepo.CountByClientID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return client.HasReservations(id)
	}
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("顧客を削除しました", zap.String("client_id", id))
	return nil
}
