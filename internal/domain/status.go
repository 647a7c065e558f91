package domain

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of a supply order
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ErrUnknownStatus is returned when a status label does not name an order status.
var ErrUnknownStatus = errors.New("unknown order status")

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:   "Pending",
	OrderAccepted:  "Accepted",
	OrderShipped:   "Shipped",
	OrderDelivered: "Delivered",
	OrderCancelled: "Cancelled",
}

var orderStatusCodes = map[string]OrderStatus{
	"pending":   OrderPending,
	"accepted":  OrderAccepted,
	"shipped":   OrderShipped,
	"delivered": OrderDelivered,
	"cancelled": OrderCancelled,
}

// Label returns a human-readable label for an order status.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseOrderStatus returns the status for a given label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, error) {
	status, ok := orderStatusCodes[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", ErrUnknownStatus
	}

	return status, nil
}

// UserRole distinguishes the two kinds of dashboard accounts
type UserRole string

const (
	RoleRetailer UserRole = "RETAILER"
	RoleSupplier UserRole = "SUPPLIER"
)

// ParseUserRole defaults to RoleRetailer for anything that is not SUPPLIER.
func ParseUserRole(s string) UserRole {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleSupplier)) {
		return RoleSupplier
	}
	return RoleRetailer
}

// SupplyOrder is a restock request placed by a retailer with a supplier
type SupplyOrder struct {
	ID                   string      `json:"id" db:"id"`
	RetailerID           string      `json:"retailer_id" db:"retailer_id"`
	RetailerBusinessName string      `json:"retailer_business_name" db:"retailer_business_name"`
	SupplierID           string      `json:"supplier_id" db:"supplier_id"`
	SupplierBusinessName string      `json:"supplier_business_name" db:"supplier_business_name"`
	ProductID            string      `json:"product_id" db:"product_id"`
	ProductName          string      `json:"product_name" db:"product_name"`
	Quantity             float64     `json:"quantity" db:"quantity"`
	Unit                 string      `json:"unit" db:"unit"`
	Status               OrderStatus `json:"status" db:"status"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
}
