package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type User struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	Status string `json:"status"`
	Data   struct {
		User User `json:"user"`
	} `json:"data"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	Status string `json:"status"`
	Data   struct {
		User User `json:"user"`
	} `json:"data"`
}

type MeResponse struct {
	Status string `json:"status"`
	Data   struct {
		User User `json:"user"`
	} `json:"data"`
}

type ListUsersResponse struct {
	Status string `json:"status"`
	Data   struct {
		Users []User `json:"users"`
		Total int64  `json:"total"`
	} `json:"data"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateUserResponse struct {
	Status string `json:"status"`
	Data   struct {
		User User `json:"user"`
	} `json:"data"`
}
