package types

// ResponseCode is the processing status of a transaction.
type ResponseCode uint32

const (
	// Unknown is the status of a transaction until handling decides otherwise.
	Unknown ResponseCode = iota
	OK
	Success
	InvalidSignature
	InvalidPayerSignature
	InsufficientTxFee
	InsufficientPayerBalance
	InvalidTransactionBody
	FailInvalid
)

var responseCodeNames = [...]string{
	Unknown:                  "UNKNOWN",
	OK:                       "OK",
	Success:                  "SUCCESS",
	InvalidSignature:         "INVALID_SIGNATURE",
	InvalidPayerSignature:    "INVALID_PAYER_SIGNATURE",
	InsufficientTxFee:        "INSUFFICIENT_TX_FEE",
	InsufficientPayerBalance: "INSUFFICIENT_PAYER_BALANCE",
	InvalidTransactionBody:   "INVALID_TRANSACTION_BODY",
	FailInvalid:              "FAIL_INVALID",
}

func (c ResponseCode) String() string {
	if int(c) < len(responseCodeNames) {
		return responseCodeNames[c]
	}
	return "UNKNOWN"
}

// IsFailure reports whether the code is a final status of an invalid transaction.
func (c ResponseCode) IsFailure() bool {
	return c != Success && c != OK && c != Unknown
}

func (c ResponseCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
