package models

// DeliveryReceipt is what the network returned for an accepted send. It is
// echoed back to API callers in the success envelope.
type DeliveryReceipt struct {
	ID        string `json:"id"`
	To        string `json:"to"`
	Timestamp int64  `json:"timestamp"`
}
