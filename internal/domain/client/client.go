package client

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("client: not found")
	ErrNameRequired = errors.New("client: name is required")
	ErrInvalidEmail = errors.New("client: invalid email")
)

type Client struct {
	ID        uint64
	Name      string
	Lastname  string
	Email     string
	Telephone string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(name, lastname, email, telephone string) (*Client, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	now := time.Now().UTC()
	return &Client{
		Name:      name,
		Lastname:  lastname,
		Email:     email,
		Telephone: telephone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Client) Apply(name, lastname, email, telephone string) error {
	if name == "" {
		return ErrNameRequired
	}
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	c.Name = name
	c.Lastname = lastname
	c.Email = email
	c.Telephone = telephone
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
