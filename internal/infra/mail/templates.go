package mail

import (
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// OrderConfirmation renders the message sent once an order is paid.
func OrderConfirmation(o *domain.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order #%d.\n\n", o.ID)
	fmt.Fprintf(&b, "Amount paid: %s\n", o.Amount.StringFixed(2))
	if o.PaymentDetails.TransactionID != "" {
		fmt.Fprintf(&b, "Transaction: %s\n", o.PaymentDetails.TransactionID)
	}
	fmt.Fprintf(&b, "Items: %d\n\n", len(o.Products))
	a := o.ShippingAddress
	fmt.Fprintf(&b, "Shipping to:\n%s\n%s, %s %s\n", a.Address, a.City, a.State, a.Pincode)

	return Message{
		To:      o.Email,
		Subject: fmt.Sprintf("Order #%d confirmed", o.ID),
		Body:    b.String(),
	}
}
