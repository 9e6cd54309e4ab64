package notification

import "fmt"

// Email builders. Kept as plain text; the triggering transitions only care
// that dispatch is non-blocking.

func OrderConfirmation(to, name, orderNumber string, total float64) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Order %s confirmed", orderNumber),
		Body: fmt.Sprintf(
			"Hi %s,\n\nThanks for shopping with us! Your order %s has been placed.\nOrder total: ₹%.2f\n\nWe will let you know when it ships.",
			name, orderNumber, total,
		),
	}
}

func AdminNewOrder(to, orderNumber string, total float64) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("New order %s", orderNumber),
		Body: fmt.Sprintf(
			"A new order %s has been placed.\nOrder total: ₹%.2f",
			orderNumber, total,
		),
	}
}

func PaymentSuccess(to, name, orderNumber string, amount float64) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment received for order %s", orderNumber),
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of ₹%.2f for order %s. Your order is confirmed.",
			name, amount, orderNumber,
		),
	}
}

func PaymentFailed(to, name, orderNumber string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment failed for order %s", orderNumber),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour payment for order %s could not be verified. No amount has been captured; you can retry the payment from your orders page.",
			name, orderNumber,
		),
	}
}
