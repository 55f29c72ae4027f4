// Package marketplace contains the externally-owned marketplace records this
// service reads, plus the notification-log entry it writes.
package marketplace

import "time"

// UserProfile is a document in the root "users" collection. The profile is
// read-only here except for the fcmToken field, which the token API and the
// invalid-token cleanup path may rewrite.
type UserProfile struct {
	Name     string `json:"name" firestore:"name"`
	FCMToken string `json:"fcmToken" firestore:"fcmToken"`
}

// BookingStatus is the status field of a booking document. The set below is
// closed for message selection; any other value falls through to the generic
// template.
type BookingStatus string

const (
	BookingAccepted  BookingStatus = "Accepted"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking is a document in the "bookings" collection.
type Booking struct {
	ServiceName string        `json:"serviceName" firestore:"serviceName"`
	ProviderID  string        `json:"serviceProviderId" firestore:"serviceProviderId"`
	CustomerID  string        `json:"userId" firestore:"userId"`
	BookingTime time.Time     `json:"bookingTime" firestore:"bookingTime"`
	Status      BookingStatus `json:"status" firestore:"status"`
}

// OrderStatus is the status field of an order document. Same closed-set rule
// as BookingStatus.
type OrderStatus string

const (
	OrderAccepted  OrderStatus = "Accepted"
	OrderReady     OrderStatus = "Ready"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// OrderItem is a line item on an order. Only the name is used for display.
type OrderItem struct {
	Name string `json:"name" firestore:"name"`
}

// Order is a document in the "orders" collection.
type Order struct {
	ShopID     string      `json:"shopId" firestore:"shopId"`
	CustomerID string      `json:"userId" firestore:"userId"`
	Items      []OrderItem `json:"items" firestore:"items"`
	Total      float64     `json:"total" firestore:"total"`
	IsDelivery bool        `json:"isDelivery" firestore:"isDelivery"`
	Status     OrderStatus `json:"status" firestore:"status"`
}

// NotificationEntry is the one persisted structure this service owns. It is
// appended under users/{userID}/notifications and never read back.
//
// Timestamp carries the serverTimestamp tag: the zero value is replaced by
// the store at write time.
type NotificationEntry struct {
	Title     string            `json:"title" firestore:"title"`
	Body      string            `json:"body" firestore:"body"`
	Data      map[string]string `json:"data" firestore:"data"`
	Timestamp time.Time         `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Read      bool              `json:"read" firestore:"read"`
}
