package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("catalog: not found")
	ErrNameRequired     = errors.New("catalog: name is required")
	ErrInvalidPrice     = errors.New("catalog: price must be zero or greater")
	ErrInvalidStock     = errors.New("catalog: stock must be zero or greater")
	ErrCategoryRequired = errors.New("catalog: category id is required")
)

type Category struct {
	ID        uint64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Category) Rename(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	return nil
}
