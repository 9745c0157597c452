package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Order struct {
	OrderID          string `json:"order_id"`
	ProductID        string `json:"product_id"`
	ProductTitle     string `json:"product_title"`
	BuyerEmail       string `json:"buyer_email"`
	BuyerName        string `json:"buyer_name,omitempty"`
	PriceCents       int64  `json:"price_cents"`
	Currency         string `json:"currency"`
	OrderStatus      string `json:"order_status"`
	PaymentStatus    string `json:"payment_status"`
	PaymentSessionID string `json:"payment_session_id,omitempty"`
	ApprovedAt       string `json:"approved_at,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type TrackingEntry struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note,omitempty"`
	UpdateAt string `json:"update_at"`
}

type PlaceOrderRequest struct {
	ProductID string `json:"product_id"`
}

type OrderResponse struct {
	Status string `json:"status"`
	Data   struct {
		Order Order `json:"order"`
	} `json:"data"`
}

type ListOrdersResponse struct {
	Status string `json:"status"`
	Data   struct {
		Orders []Order `json:"orders"`
		Total  int64   `json:"total"`
	} `json:"data"`
}

type AppendTrackingRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note,omitempty"`
}

type TrackingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Order   Order           `json:"order"`
		OrderID string          `json:"order_id"`
		Entries []TrackingEntry `json:"entries"`
	} `json:"data"`
}

type GetTrackingResponse struct {
	Status string `json:"status"`
	Data   struct {
		OrderID string          `json:"order_id"`
		Entries []TrackingEntry `json:"entries"`
	} `json:"data"`
}
