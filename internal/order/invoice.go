package order

import (
	"bytes"
	"fmt"
)

// RenderInvoice produces the downloadable invoice document for an order.
// Rendering is deliberately plain text; a PDF pipeline can replace this
// without touching the handler contract.
func RenderInvoice(o *Order, storeName string) []byte {
	if storeName == "" {
		storeName = "VastraPoint"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n", storeName)
	fmt.Fprintf(&b, "TAX INVOICE\n")
	fmt.Fprintf(&b, "Invoice for order %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Date: %s\n\n", o.CreatedAt.Format("02 Jan 2006"))

	fmt.Fprintf(&b, "Bill to:\n%s\n%s\n", o.ShippingAddress.FullName, o.ShippingAddress.AddressLine1)
	if o.ShippingAddress.AddressLine2 != "" {
		fmt.Fprintf(&b, "%s\n", o.ShippingAddress.AddressLine2)
	}
	fmt.Fprintf(&b, "%s, %s %s\n%s\n\n",
		o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.Pincode, o.ShippingAddress.Country,
	)

	fmt.Fprintf(&b, "%-40s %8s %5s %12s\n", "Item", "Price", "Qty", "Amount")
	for _, it := range o.Items {
		title := it.Title
		if it.Size != "" || it.Color != "" {
			title = fmt.Sprintf("%s (%s/%s)", it.Title, it.Size, it.Color)
		}
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(&b, "%-40s %8.2f %5d %12.2f\n",
			title, it.Price, it.Quantity, it.Price*float64(it.Quantity))
	}

	fmt.Fprintf(&b, "\n%-54s %12.2f\n", "Items total", o.ItemsTotal)
	if o.Discount > 0 {
		coupon := ""
		if o.CouponUsed != nil {
			coupon = " (" + *o.CouponUsed + ")"
		}
		fmt.Fprintf(&b, "%-54s %12.2f\n", "Discount"+coupon, -o.Discount)
	}
	fmt.Fprintf(&b, "%-54s %12.2f\n", "Shipping", o.ShippingCharge)
	fmt.Fprintf(&b, "%-54s %12.2f\n", "TOTAL", o.TotalAmount)

	fmt.Fprintf(&b, "\nPayment method: %s\n", o.PaymentInfo.Method)
	fmt.Fprintf(&b, "Payment status: %s\n", o.PaymentInfo.Status)

	return b.Bytes()
}
