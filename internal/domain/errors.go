// Package domain holds the Sale aggregate and its business rules.
// Everything here is pure in-memory logic: no I/O, no transactions, no
// framework types. The service layer loads an aggregate, calls one of its
// methods, and persists the result only when the call succeeded.
package domain

// Stable machine-readable codes for every business rule violation.
// Clients match on these; the messages are for humans and may change.
const (
	CodeInvalidSaleID        = "INVALID_SALE_ID"
	CodeInvalidSaleNumber    = "INVALID_SALE_NUMBER"
	CodeInvalidCustomerID    = "INVALID_CUSTOMER_ID"
	CodeInvalidCustomerName  = "INVALID_CUSTOMER_NAME"
	CodeInvalidBranchID      = "INVALID_BRANCH_ID"
	CodeInvalidBranchName    = "INVALID_BRANCH_NAME"
	CodeInvalidDeletionDate  = "INVALID_DELETION_DATE"
	CodeInvalidProductID     = "INVALID_PRODUCT_ID"
	CodeInvalidProductName   = "INVALID_PRODUCT_NAME"
	CodeUnitPricePositive    = "UNIT_PRICE_MUST_BE_POSITIVE"
	CodeUnitPriceMismatch    = "UNIT_PRICE_MISMATCH"
	CodeQuantityPositive     = "QUANTITY_MUST_BE_POSITIVE"
	CodeIncrementPositive    = "INCREMENT_MUST_BE_POSITIVE"
	CodeMaxPerItemExceeded   = "MAX_PER_ITEM_EXCEEDED"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeItemCancelled        = "ITEM_CANCELLED"
	CodeItemAlreadyCancelled = "ITEM_ALREADY_CANCELLED"
	CodeNoActiveItems        = "NO_ACTIVE_ITEMS"
	CodeActiveItemsExist     = "ACTIVE_ITEMS_EXIST"
	CodeSaleCancelled        = "SALE_CANCELLED"
	CodeSaleAlreadyDeleted   = "SALE_ALREADY_DELETED"
)

// Error is a deterministic business-rule rejection. It is never transient
// and must not be retried.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// NewError builds a business-rule rejection with a stable code.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newError(code, message string) *Error { return NewError(code, message) }
