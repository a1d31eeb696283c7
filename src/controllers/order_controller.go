package controllers

import (
	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/controllers/models"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/order/domain"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	orderService domain.OrderService
	logger       log.Logger
}

func NewOrderController(orderService domain.OrderService, logger log.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

func (c *OrderController) Route(app *fiber.App, requireAdmin fiber.Handler) {
	app.Post("/api/orders", c.CreateOrder)

	admin := app.Group("/api/admin/orders", requireAdmin)
	admin.Get("/", c.ListOrders)
	admin.Post("/replay-failed-events", c.ReplayFailedEvents)
	admin.Get("/:id", c.GetOrder)
	admin.Put("/:id/status", c.UpdateStatus)
	admin.Post("/:id/reconcile", c.ReconcileFulfillment)
	admin.Delete("/:id", c.DeleteOrder)
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Stores a checkout as a pending order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      models.OrderRequest  true  "Order payload"
// @Success      201    {object}  domain.Order
// @Failure      400    {object}  models.MessageResponse
// @Failure      503    {object}  models.MessageResponse
// @Router       /api/orders [post]
func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var request models.OrderRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid request body"})
	}

	order, err := c.orderService.CreateOrder(ctx.UserContext(), toNewOrder(request))
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// ListOrders godoc
// @Summary      List orders
// @Description  Returns every order, newest first
// @Tags         admin-orders
// @Produce      json
// @Security     AdminSession
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  models.MessageResponse
// @Router       /api/admin/orders [get]
func (c *OrderController) ListOrders(ctx *fiber.Ctx) error {
	orders, err := c.orderService.ListOrders(ctx.UserContext())
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(orders)
}

// GetOrder godoc
// @Summary      Get an order
// @Tags         admin-orders
// @Produce      json
// @Security     AdminSession
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  models.MessageResponse
// @Router       /api/admin/orders/{id} [get]
func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	order, err := c.orderService.GetOrder(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(order)
}

// UpdateStatus godoc
// @Summary      Change an order's status
// @Description  Moves the order to pending, in-progress, delivered or cancelled. Entering delivered adjusts stock once.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Security     AdminSession
// @Param        id      path      string                true  "Order ID"
// @Param        status  body      models.StatusRequest  true  "New status"
// @Success      200     {object}  domain.Order
// @Failure      400     {object}  models.MessageResponse
// @Failure      404     {object}  models.MessageResponse
// @Failure      409     {object}  models.MessageResponse
// @Router       /api/admin/orders/{id}/status [put]
func (c *OrderController) UpdateStatus(ctx *fiber.Ctx) error {
	var request models.StatusRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid request body"})
	}

	order, err := c.orderService.TransitionStatus(ctx.UserContext(), ctx.Params("id"), request.Status)
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(order)
}

// ReconcileFulfillment godoc
// @Summary      Finish a delivered order's stock adjustment
// @Description  Retries the stock adjustment of items a storage failure left unadjusted
// @Tags         admin-orders
// @Produce      json
// @Security     AdminSession
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      409  {object}  models.MessageResponse
// @Router       /api/admin/orders/{id}/reconcile [post]
func (c *OrderController) ReconcileFulfillment(ctx *fiber.Ctx) error {
	order, err := c.orderService.ReconcileFulfillment(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(order)
}

// DeleteOrder godoc
// @Summary      Delete an order
// @Tags         admin-orders
// @Produce      json
// @Security     AdminSession
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.MessageResponse
// @Router       /api/admin/orders/{id} [delete]
func (c *OrderController) DeleteOrder(ctx *fiber.Ctx) error {
	if err := c.orderService.DeleteOrder(ctx.UserContext(), ctx.Params("id")); err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(models.MessageResponse{Message: "Order removed"})
}

// ReplayFailedEvents godoc
// @Summary      Replay failed order events
// @Description  Republishes order events whose publish failed earlier
// @Tags         admin-orders
// @Produce      json
// @Security     AdminSession
// @Success      200  {object}  domain.ReplayReport
// @Failure      503  {object}  models.MessageResponse
// @Router       /api/admin/orders/replay-failed-events [post]
func (c *OrderController) ReplayFailedEvents(ctx *fiber.Ctx) error {
	report, err := c.orderService.ReplayFailedEvents(ctx.UserContext())
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(report)
}

func toNewOrder(request models.OrderRequest) domain.NewOrder {
	order := domain.NewOrder{
		Customer: domain.Customer{
			Name:         request.Customer.Name,
			Phone:        request.Customer.Phone,
			Location:     request.Customer.Location,
			DeliveryDate: request.Customer.DeliveryDate,
		},
		Items: make([]domain.Item, 0, len(request.Items)),
		Total: request.Total,
		Date:  request.Date,
	}
	for _, item := range request.Items {
		productID := item.ProductID
		if productID == "" {
			productID = item.ID
		}
		order.Items = append(order.Items, domain.Item{
			ProductID: productID,
			Name:      item.Name,
			Color:     item.Color,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}
	return order
}
