package purchase

// Error codes reported by the billing API when a payment processor rejects a purchase.
const (
	FirstDataInvalidExpirationDate   = "FirstData.InvalidExpirationDate"
	FirstDataInvalidCreditCardNumber = "FirstData.InvalidCreditCardNumber"
	FirstDataInvalidCCNumber         = "FirstData.InvalidCCNumber"
	FirstDataDeclined                = "FirstData.Declined"
	FirstDataDoNotHonorDeclined      = "FirstData.DoNotHonorDeclined"
	FirstDataSuspectedFraud          = "FirstData.SuspectedFraud"
	FirstDataInsufficientFunds       = "FirstData.InsufficientFunds"
	FirstDataCardVolumeExceeded      = "FirstData.CardVolumeExceeded"

	MercadoPagoInvalidExpirationDate = "MercadoPago.InvalidExpirationDate"
	MercadoPagoDeclinedOtherReason   = "MercadoPago.DeclinedOtherReason"
	MercadoPagoSuspectedFraud        = "MercadoPago.SuspectedFraud"
	MercadoPagoInsufficientFunds     = "MercadoPago.InsufficientFunds"
	MercadoPagoInvalidSecurityCode   = "MercadoPago.InvalidSecurityCode"

	CloverInvalidExpirationMonth  = "Clover.InvalidExpirationMonth"
	CloverInvalidExpirationYear   = "Clover.InvalidExpirationYear"
	CloverInvalidExpirationCard   = "Clover.InvalidExpirationCard"
	CloverInvalidCreditCardNumber = "Clover.InvalidCreditCardNumber"
	CloverDeclined                = "Clover.Declined"
	CloverInsufficientFunds       = "Clover.InsufficientFunds"
	CloverInvalidSecurityCode     = "Clover.InvalidSecurityCode"

	OnlySupportUpSelling = "OnlySupportUpSelling"
)

const (
	msgInvalidExpirationDate   = "checkoutProcessForm.payment_method.first_data_error.invalid_expiration_date"
	msgInvalidCreditCardNumber = "checkoutProcessForm.payment_method.first_data_error.invalid_credit_card_number"
	msgDeclined                = "checkoutProcessForm.payment_method.first_data_error.declined"
	msgSuspectedFraud          = "checkoutProcessForm.payment_method.first_data_error.suspected_fraud"
	msgInsufficientFunds       = "checkoutProcessForm.payment_method.first_data_error.insufficient_funds"
	msgCardVolumeExceeded      = "checkoutProcessForm.payment_method.first_data_error.card_volume_exceeded"
	msgInvalidSecurityCode     = "checkoutProcessForm.payment_method.mercado_pago_error.invalid_security_code"
	msgOnlySupportsUpselling   = "checkoutProcessForm.purchase_summary.error_only_supports_upselling_message"

	// MsgPurchaseError is the generic failure message key.
	MsgPurchaseError = "checkoutProcessForm.purchase_summary.error_message"
)

var errorMessageKeys = map[string]string{
	FirstDataInvalidExpirationDate:   msgInvalidExpirationDate,
	MercadoPagoInvalidExpirationDate: msgInvalidExpirationDate,
	CloverInvalidExpirationMonth:     msgInvalidExpirationDate,
	CloverInvalidExpirationYear:      msgInvalidExpirationDate,
	CloverInvalidExpirationCard:      msgInvalidExpirationDate,

	FirstDataInvalidCreditCardNumber: msgInvalidCreditCardNumber,
	FirstDataInvalidCCNumber:         msgInvalidCreditCardNumber,
	CloverInvalidCreditCardNumber:    msgInvalidCreditCardNumber,

	FirstDataDeclined:              msgDeclined,
	FirstDataDoNotHonorDeclined:    msgDeclined,
	MercadoPagoDeclinedOtherReason: msgDeclined,
	CloverDeclined:                 msgDeclined,

	FirstDataSuspectedFraud:   msgSuspectedFraud,
	MercadoPagoSuspectedFraud: msgSuspectedFraud,

	FirstDataInsufficientFunds:   msgInsufficientFunds,
	MercadoPagoInsufficientFunds: msgInsufficientFunds,
	CloverInsufficientFunds:      msgInsufficientFunds,

	FirstDataCardVolumeExceeded: msgCardVolumeExceeded,

	MercadoPagoInvalidSecurityCode: msgInvalidSecurityCode,
	CloverInvalidSecurityCode:      msgInvalidSecurityCode,

	OnlySupportUpSelling: msgOnlySupportsUpselling,
}

// ErrorMessageKey maps a billing error code to the message the UI shows.
func ErrorMessageKey(code string) string {
	if key, ok := errorMessageKeys[code]; ok {
		return key
	}
	return MsgPurchaseError
}
