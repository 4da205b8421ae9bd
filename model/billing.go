package model

type CheckoutRequest struct {
	Plan string `json:"plan"`
}

type CheckoutSession struct {
	URL string `json:"url"`
}

type Cancellation struct {
	Message        string    `json:"message"`
	AccessUntil    Timestamp `json:"access_until"`
	SubscriptionID string    `json:"subscription_id"`
}
