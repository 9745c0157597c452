package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Product struct {
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	ImageURL    string `json:"image_url,omitempty"`
	SellerEmail string `json:"seller_email"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ProductResponse struct {
	Status string `json:"status"`
	Data   struct {
		Product Product `json:"product"`
	} `json:"data"`
}

type ListProductsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Products []Product `json:"products"`
		Total    int64     `json:"total"`
	} `json:"data"`
}

type DeleteProductResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProductID string `json:"product_id"`
		Deleted   bool   `json:"deleted"`
	} `json:"data"`
}
