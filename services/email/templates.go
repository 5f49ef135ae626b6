package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var purchaseConfirmationTemplate = template.Must(template.New("purchase_confirmation").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f9fafb; font-family: Arial, sans-serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #f9fafb;">
        <tr>
            <td align="center" style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="background-color: #ffffff; border-radius: 8px;">
                    <tr>
                        <td style="padding: 32px;">
                            <h2 style="margin: 0 0 16px;">{{.Heading}}</h2>
                            <p>{{.Intro}}</p>
                            <table role="presentation" width="100%" style="margin-top: 16px;">
                                <tr><td>{{.PlanLabel}}</td><td align="right">#{{.PlanID}}</td></tr>
                                {{- if .Discount}}
                                <tr><td>{{.DiscountLabel}}</td><td align="right">{{.Discount}}</td></tr>
                                {{- end}}
                                {{- if .ExtraCredits}}
                                <tr><td>{{.ExtraCreditsLabel}}</td><td align="right">{{.ExtraCredits}}</td></tr>
                                {{- end}}
                                <tr><td>{{.PaymentMethodLabel}}</td><td align="right">{{.PaymentMethod}}</td></tr>
                                <tr><td><strong>{{.TotalLabel}}</strong></td><td align="right"><strong>US$ {{.Total}}</strong></td></tr>
                            </table>
                            <p style="color: #6b7280; font-size: 12px; margin-top: 24px;">{{.Reference}}: {{.AttemptID}}</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`))

type confirmationCopy struct {
	Subject            string
	Heading            string
	Intro              string
	PlanLabel          string
	DiscountLabel      string
	ExtraCreditsLabel  string
	PaymentMethodLabel string
	TotalLabel         string
	Reference          string
}

var confirmationCopies = map[string]confirmationCopy{
	"en": {
		Subject:            "Your purchase is confirmed",
		Heading:            "Thanks for your purchase!",
		Intro:              "Your new marketing plan is being activated. This is your purchase summary.",
		PlanLabel:          "Plan",
		DiscountLabel:      "Billing",
		ExtraCreditsLabel:  "Extra credits",
		PaymentMethodLabel: "Payment method",
		TotalLabel:         "Total",
		Reference:          "Reference",
	},
	"es": {
		Subject:            "Tu compra fue confirmada",
		Heading:            "¡Gracias por tu compra!",
		Intro:              "Estamos activando tu nuevo plan de marketing. Este es el resumen de tu compra.",
		PlanLabel:          "Plan",
		DiscountLabel:      "Facturación",
		ExtraCreditsLabel:  "Créditos extra",
		PaymentMethodLabel: "Medio de pago",
		TotalLabel:         "Total",
		Reference:          "Referencia",
	},
}

// RenderPurchaseConfirmation returns the subject and HTML body for the locale of c,
// English when the locale is not supported.
func RenderPurchaseConfirmation(c PurchaseConfirmation) (string, string, error) {
	lang := "en"
	if strings.HasPrefix(strings.ToLower(c.Locale), "es") {
		lang = "es"
	}
	texts := confirmationCopies[lang]

	var buf bytes.Buffer
	err := purchaseConfirmationTemplate.Execute(&buf, struct {
		confirmationCopy
		PurchaseConfirmation
		Lang string
	}{texts, c, lang})
	if err != nil {
		return "", "", fmt.Errorf("failed to render purchase confirmation: %w", err)
	}
	return texts.Subject, buf.String(), nil
}
