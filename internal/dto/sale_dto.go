package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from query string of GET /v1/sales.
type SaleFilter struct {
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	BranchID   string `form:"branch_id"   validate:"omitempty,uuid"`
	Number     string `form:"number"`
	Order      string `form:"order,default=-createdAt" validate:"omitempty,oneof=number -number createdAt -createdAt"`
	Page       int    `form:"page,default=1"  validate:"min=1"`
	Size       int    `form:"size,default=20" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID   string          `json:"product_id"   validate:"required,uuid"`
	ProductName string          `json:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"   validate:"required"`
	Quantity    int             `json:"quantity"     validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Number       string            `json:"number"        validate:"required"`
	CustomerID   string            `json:"customer_id"   validate:"required,uuid"`
	CustomerName string            `json:"customer_name" validate:"required"`
	BranchID     string            `json:"branch_id"     validate:"required,uuid"`
	BranchName   string            `json:"branch_name"   validate:"required"`
	Items        []SaleItemRequest `json:"items"         validate:"omitempty,dive"`
	// CustomerEmail: optional — when present, the event worker mails the PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type AddItemRequest struct {
	ProductID   string          `json:"product_id"   validate:"required,uuid"`
	ProductName string          `json:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"   validate:"required"`
	Quantity    int             `json:"quantity"     validate:"required,min=1"`
}

type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type RemoveItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Cancelled      bool            `json:"cancelled"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	BranchID      string             `json:"branch_id"`
	BranchName    string             `json:"branch_name"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	TotalPayable  decimal.Decimal    `json:"total_payable"`
	Cancelled     bool               `json:"cancelled"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
	DeletedAt     *string            `json:"deleted_at,omitempty"`
}
