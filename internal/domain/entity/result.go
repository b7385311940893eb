package entity

// Result is the outcome of a mutating operation. Business-rule failures are
// reported here with Success=false; infrastructure failures are returned as errors.
type Result[T any] struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Ok returns a successful result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail returns a failed result with a business code and human-readable message.
func Fail[T any](code, message string) Result[T] {
	return Result[T]{Code: code, Message: message}
}

// Result codes for business-rule failures.
const (
	CodeUsernameTaken       = "USERNAME_TAKEN"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeSponsorNameTaken    = "SPONSOR_NAME_TAKEN"
	CodeInvalidRatio        = "INVALID_RATIO"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodePointsFloor         = "POINTS_FLOOR"
	CodeNoBalance           = "NO_BALANCE"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeSponsorNotFound     = "SPONSOR_NOT_FOUND"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeProductUnavailable  = "PRODUCT_UNAVAILABLE"
	CodeEmptyCart           = "EMPTY_CART"
	CodeApplicationNotFound = "APPLICATION_NOT_FOUND"
	CodeAlreadyProcessed    = "ALREADY_PROCESSED"
	CodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	CodeNotRefundable       = "NOT_REFUNDABLE"
	CodeRefundNotPending    = "REFUND_NOT_PENDING"
	CodeNotificationMissing = "NOTIFICATION_NOT_FOUND"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeInvalidInput        = "INVALID_INPUT"
)
