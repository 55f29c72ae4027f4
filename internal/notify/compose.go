// Package notify implements the event -> enrich -> format -> deliver ->
// archive sequence for marketplace document events.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// FallbackCustomerName stands in when the customer profile is missing.
const FallbackCustomerName = "A customer"

// Booking times render in the en-IN style the client apps expect:
// "5 Mar 2024" and "10:30 am".
const (
	bookingDateLayout = "2 Jan 2006"
	bookingTimeLayout = "3:04 pm"
)

// BookingCreatedMessage composes the push sent to the provider when a new
// booking lands.
func BookingCreatedMessage(bookingID string, b marketplace.Booking, customerName string) (notification.NotificationContent, map[string]string) {
	content := notification.NotificationContent{
		Title: "New Service Booking",
		Body: fmt.Sprintf("%s has booked %s from you at %s, %s",
			customerName,
			b.ServiceName,
			b.BookingTime.Format(bookingDateLayout),
			b.BookingTime.Format(bookingTimeLayout),
		),
	}
	data := map[string]string{
		"type":         "booking",
		"bookingId":    bookingID,
		"serviceName":  b.ServiceName,
		"customerName": customerName,
		"bookingTime":  b.BookingTime.Format(time.RFC3339),
	}
	return content, data
}

// OrderCreatedMessage composes the push sent to the shop when a new order
// lands.
func OrderCreatedMessage(orderID string, o marketplace.Order, customerName string) (notification.NotificationContent, map[string]string) {
	content := notification.NotificationContent{
		Title: "New Order Received",
		Body: fmt.Sprintf("%s ordered %s (%s) - ₹%s",
			customerName,
			itemSummary(o.Items),
			deliveryLabel(o.IsDelivery),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
		),
	}
	data := map[string]string{
		"type":         "order",
		"orderId":      orderID,
		"customerName": customerName,
		"deliveryType": deliveryLabel(o.IsDelivery),
		"total":        strconv.FormatFloat(o.Total, 'f', -1, 64),
		"itemCount":    strconv.Itoa(len(o.Items)),
	}
	return content, data
}

// BookingStatusMessage composes the push sent to the customer when a
// booking's status changes. Statuses outside the closed set render the
// generic template with the raw value.
func BookingStatusMessage(bookingID string, b marketplace.Booking) (notification.NotificationContent, map[string]string) {
	var body string
	switch b.Status {
	case marketplace.BookingAccepted:
		body = fmt.Sprintf("Your booking for %s has been accepted!", b.ServiceName)
	case marketplace.BookingCompleted:
		body = fmt.Sprintf("Your booking for %s has been completed.", b.ServiceName)
	case marketplace.BookingCancelled:
		body = fmt.Sprintf("Your booking for %s has been cancelled.", b.ServiceName)
	default:
		body = fmt.Sprintf("Your booking for %s status updated to %s", b.ServiceName, b.Status)
	}

	content := notification.NotificationContent{Title: "Booking Update", Body: body}
	data := map[string]string{
		"type":        "booking_update",
		"bookingId":   bookingID,
		"status":      string(b.Status),
		"serviceName": b.ServiceName,
	}
	return content, data
}

// OrderStatusMessage composes the push sent to the customer when an order's
// status changes.
func OrderStatusMessage(orderID string, o marketplace.Order) (notification.NotificationContent, map[string]string) {
	var body string
	switch o.Status {
	case marketplace.OrderAccepted:
		body = "Your order has been accepted and is being prepared!"
	case marketplace.OrderReady:
		if o.IsDelivery {
			body = "Your order is ready for delivery!"
		} else {
			body = "Your order is ready for pickup!"
		}
	case marketplace.OrderCompleted:
		body = "Your order has been completed. Thank you!"
	case marketplace.OrderCancelled:
		body = "Your order has been cancelled."
	default:
		body = fmt.Sprintf("Your order status updated to %s", o.Status)
	}

	content := notification.NotificationContent{Title: "Order Update", Body: body}
	data := map[string]string{
		"type":    "order_update",
		"orderId": orderID,
		"status":  string(o.Status),
		"total":   strconv.FormatFloat(o.Total, 'f', -1, 64),
	}
	return content, data
}

// itemSummary joins the first two item names; the rest collapse into
// "and N more".
func itemSummary(items []marketplace.OrderItem) string {
	names := make([]string, 0, 2)
	for i, item := range items {
		if i == 2 {
			break
		}
		names = append(names, item.Name)
	}
	summary := strings.Join(names, ", ")
	if len(items) > 2 {
		summary += fmt.Sprintf(" and %d more", len(items)-2)
	}
	return summary
}

func deliveryLabel(isDelivery bool) string {
	if isDelivery {
		return "Delivery"
	}
	return "Pickup"
}
