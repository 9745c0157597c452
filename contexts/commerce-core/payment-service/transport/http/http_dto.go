package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Session struct {
	SessionID   string `json:"session_id"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type SessionResponse struct {
	Status string `json:"status"`
	Data   struct {
		OrderID string  `json:"order_id"`
		Session Session `json:"session"`
	} `json:"data"`
}

type ResolveResponse struct {
	Status string `json:"status"`
	Data   struct {
		OrderID       string `json:"order_id"`
		SessionID     string `json:"session_id"`
		PaymentStatus string `json:"payment_status"`
	} `json:"data"`
}
