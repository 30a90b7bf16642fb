package worker

import (
	"fmt"
	"strings"

	"villfresh_store/internal/domain/order/model"
	"villfresh_store/internal/pkg/config"
	"villfresh_store/internal/pkg/mailer"
)

// BuildOrderConfirmation renders the confirmation mail for an order.
func BuildOrderConfirmation(order *model.Order, recipient string) mailer.Email {
	addr := order.ShippingAddress.Data()

	var rows strings.Builder
	for _, item := range order.Items.Data() {
		rows.WriteString(fmt.Sprintf(`<tr>
  <td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
  <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
  <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">&#8377;%.2f</td>
  <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">&#8377;%.2f</td>
</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity)))
	}

	paymentLabel := "Pending"
	if order.PaymentStatus == model.PaymentStatusPaid {
		paymentLabel = "Paid"
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #22c55e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0;">Order Confirmed!</h1>
  </div>
  <div style="background-color: #f9fafb; padding: 20px;">
    <p>Dear %s,</p>
    <p>Thank you for your order! We're excited to deliver fresh organic products to you.</p>
    <p><strong>Order ID:</strong> #%s<br>
       <strong>Total Amount:</strong> &#8377;%.2f<br>
       <strong>Payment Status:</strong> %s</p>
    <table style="width: 100%%; border-collapse: collapse;">
      <thead><tr style="background-color: #f3f4f6;">
        <th style="padding: 10px; text-align: left;">Product</th>
        <th style="padding: 10px; text-align: center;">Quantity</th>
        <th style="padding: 10px; text-align: right;">Price</th>
        <th style="padding: 10px; text-align: right;">Total</th>
      </tr></thead>
      <tbody>%s</tbody>
    </table>
    <p><strong>Shipping Address:</strong><br>
       %s<br>%s<br>%s, %s - %s<br>Phone: %s</p>
    <p><strong>Estimated Delivery:</strong> %s</p>
    <p>We'll send you tracking information once your order ships.</p>
    <p>Thank you for choosing Villfresh!</p>
  </div>
</body>
</html>`,
		addr.FullName, order.ID, order.Total, paymentLabel, rows.String(),
		addr.FullName, addr.Address, addr.City, addr.State, addr.Pincode, addr.Phone,
		order.EstimatedDelivery.Format("02 Jan 2006"))

	text := fmt.Sprintf("Dear %s,\n\nYour order #%s has been confirmed.\nTotal: Rs %.2f\nPayment status: %s\nEstimated delivery: %s\n\nThank you for choosing Villfresh!",
		addr.FullName, order.ID, order.Total, paymentLabel,
		order.EstimatedDelivery.Format("02 Jan 2006"))

	fromName := config.GlobalConfig.SMTP.FromName
	if fromName == "" {
		fromName = "Villfresh"
	}

	return mailer.Email{
		FromName: fromName,
		To:       recipient,
		Subject:  fmt.Sprintf("Order Confirmation - #%s", order.ID),
		HTMLBody: html,
		TextBody: text,
	}
}
