// Package directory reads shops, services and employees owned by the shop service.
package directory

import (
	"context"
	"encoding/json"
)

type Shop struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
}

type Service struct {
	ID       int64  `json:"id"`
	ShopID   int64  `json:"shopId"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	// Price keeps the decimal text the shop service sent, e.g. "25.00".
	Price json.Number `json:"price,omitempty"`
}

type Employee struct {
	ID     int64  `json:"id"`
	ShopID int64  `json:"shopId"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
}

// Client returns snapshots or an apperror of kind NotFound or Unavailable.
type Client interface {
	GetShop(ctx context.Context, shopID int64) (*Shop, error)
	GetService(ctx context.Context, serviceID int64) (*Service, error)
	GetEmployee(ctx context.Context, employeeID int64) (*Employee, error)
}
