package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get handles GET /api/cart/:userId.
//
// @Summary      Get a user's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  domain.Cart
// @Failure      403     {object}  errorResponse
// @Router       /api/cart/{userId} [get]
func (h *CartHandler) Get(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.Get(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart/:userId. Quantities accumulate per product.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string           true  "User id"
// @Param        body    body      cartItemRequest  true  "Product and quantity"
// @Success      200     {object}  cartResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/cart/{userId} [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.carts.AddItem(c.Request().Context(), caller, c.Param("userId"), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Message: "product added", Cart: cart})
}

// RemoveItem handles DELETE /api/cart/:userId/:productId.
//
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        userId     path      string  true  "User id"
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  cartResponse
// @Failure      403        {object}  errorResponse
// @Router       /api/cart/{userId}/{productId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.RemoveItem(c.Request().Context(), caller, c.Param("userId"), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Message: "product removed", Cart: cart})
}
