package client

import "context"

type Repository interface {
	Insert(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id uint64) (*Client, error)
	List(ctx context.Context, offset, limit int) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uint64) error
}
