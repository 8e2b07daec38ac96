package handler

import "github.com/lbsshop/storefront-api/internal/core/domain"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// --- Catalog ---

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"       validate:"min=0"`
	Image       string  `json:"image"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"       validate:"omitempty,min=0"`
	Image       *string  `json:"image"`
	Active      *bool    `json:"active"`
}

type productResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// --- Cart ---

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type cartResponse struct {
	Message string       `json:"message"`
	Cart    *domain.Cart `json:"cart"`
}

// --- Orders ---

type orderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"      validate:"gte=0"`
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"dive"`
}

type orderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type confirmPaymentResponse struct {
	Message string        `json:"message"`
	QRCode  string        `json:"qr_code"`
	Payload string        `json:"payload"`
	Order   *domain.Order `json:"order"`
}

type verifyArtifactRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// --- Users ---

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}
