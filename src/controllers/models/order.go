package models

import "time"

type CustomerRequest struct {
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Location     string     `json:"location"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

// OrderItemRequest accepts the product id as productId or, from older
// clients, as id.
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type OrderRequest struct {
	Customer CustomerRequest    `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
	Total    float64            `json:"total"`
	Date     *time.Time         `json:"date"`
}

type StatusRequest struct {
	Status string `json:"status" example:"delivered"`
}
