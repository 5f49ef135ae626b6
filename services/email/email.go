package email

// Sender delivers transactional emails.
type Sender interface {
	SendEmail(to, subject, body string) error
}

// PurchaseConfirmation is the content of the email sent after a successful purchase.
type PurchaseConfirmation struct {
	To            string
	AttemptID     string
	PlanID        int
	Total         string
	PaymentMethod string
	Discount      string
	ExtraCredits  int
	Locale        string
}

// SendPurchaseConfirmation renders and sends the confirmation through sender.
func SendPurchaseConfirmation(sender Sender, c PurchaseConfirmation) error {
	subject, body, err := RenderPurchaseConfirmation(c)
	if err != nil {
		return err
	}
	return sender.SendEmail(c.To, subject, body)
}
