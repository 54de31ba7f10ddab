package client

import (
	"context"
	"fmt"

	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
)

type Service struct {
	clients domclient.Repository
}

func NewService(clients domclient.Repository) *Service {
	return &Service{clients: clients}
}

type Input struct {
	Name      string
	Lastname  string
	Email     string
	Telephone string
}

func (s *Service) Create(ctx context.Context, in Input) (*domclient.Client, error) {
	entity, err := domclient.New(in.Name, in.Lastname, in.Email, in.Telephone)
	if err != nil {
		return nil, err
	}
	if err := s.clients.Insert(ctx, entity); err != nil {
		return nil, fmt.Errorf("client: insert: %w", err)
	}
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in Input) (*domclient.Client, error) {
	entity, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Apply(in.Name, in.Lastname, in.Email, in.Telephone); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("client: update: %w", err)
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint64) (*domclient.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]*domclient.Client, error) {
	return s.clients.List(ctx, offset, limit)
}
