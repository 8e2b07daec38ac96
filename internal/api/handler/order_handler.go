package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

// OrderHandler exposes the order workflow.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /api/orders. Without items the caller's stored cart is ordered.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  false  "Cart snapshot"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateOrderInput{Items: make([]ports.OrderItemInput, 0, len(req.Items))}
	for _, it := range req.Items {
		in.Items = append(in.Items, ports.OrderItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order, err := h.orders.Create(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "order created", Order: order})
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListByUser handles GET /api/orders/user/:userId.
//
// @Summary      List a user's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path     string  true  "User id"
// @Success      200     {array}  domain.Order
// @Failure      403     {object} errorResponse
// @Router       /api/orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListByUser(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAll handles GET /api/orders.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListAll(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// SetStatus handles PUT /api/orders/:id/status.
//
// @Summary      Change an order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Order id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) SetStatus(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.SetStatus(c.Request().Context(), caller, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "status updated", Order: order})
}

// ConfirmPayment handles POST /api/orders/:id/confirm and POST /api/qrcode/:id.
// Repeated calls return the artifact stored by the first one.
//
// @Summary      Confirm payment and issue a QR artifact
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  confirmPaymentResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	caller, err := currentCaller(c)
	if err != nil {
		return err
	}

	order, err := h.orders.ConfirmPayment(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	res := confirmPaymentResponse{Message: "payment confirmed", Order: order}
	if order.PaymentArtifact != nil {
		res.QRCode = order.PaymentArtifact.QRCode
		res.Payload = order.PaymentArtifact.Payload
	}
	return c.JSON(http.StatusOK, res)
}

// VerifyArtifact handles POST /api/orders/verify. No storage is consulted.
//
// @Summary      Verify a scanned payment artifact
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyArtifactRequest  true  "Scanned payload"
// @Success      200   {object}  domain.PaymentProof
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/verify [post]
func (h *OrderHandler) VerifyArtifact(c echo.Context) error {
	var req verifyArtifactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	proof, err := h.orders.VerifyArtifact(c.Request().Context(), req.Payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proof)
}
