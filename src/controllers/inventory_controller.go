package controllers

import (
	"strconv"

	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/controllers/models"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/inventory"

	"github.com/gofiber/fiber/v2"
)

type InventoryController struct {
	inventoryService inventory.InventoryService
	logger           log.Logger
}

func NewInventoryController(inventoryService inventory.InventoryService, logger log.Logger) *InventoryController {
	return &InventoryController{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

func (c *InventoryController) Route(app *fiber.App, requireAdmin fiber.Handler) {
	api := app.Group("/api/products")
	api.Get("/", c.ListProducts)
	api.Get("/featured", c.FeaturedProducts)
	api.Get("/:id", c.GetProduct)

	admin := app.Group("/api/admin/products", requireAdmin)
	admin.Get("/", c.ListProducts)
	admin.Post("/", c.AddProduct)
	admin.Get("/low-stock/:threshold", c.GetLowStockProducts)
	admin.Put("/:id", c.UpdateProduct)
	admin.Delete("/:id", c.DeleteProduct)
}

// ListProducts godoc
// @Summary      List products
// @Description  Returns the catalog, optionally filtered by category
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Category, or all"
// @Success      200       {array}   inventory.Product
// @Failure      503       {object}  models.MessageResponse
// @Router       /api/products [get]
func (c *InventoryController) ListProducts(ctx *fiber.Ctx) error {
	products, err := c.inventoryService.ListProducts(ctx.UserContext(), ctx.Query("category"))
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(products)
}

// FeaturedProducts godoc
// @Summary      Featured products
// @Tags         products
// @Produce      json
// @Success      200  {array}  inventory.Product
// @Router       /api/products/featured [get]
func (c *InventoryController) FeaturedProducts(ctx *fiber.Ctx) error {
	products, err := c.inventoryService.FeaturedProducts(ctx.UserContext())
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(products)
}

// GetProduct godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  inventory.Product
// @Failure      404  {object}  models.MessageResponse
// @Router       /api/products/{id} [get]
func (c *InventoryController) GetProduct(ctx *fiber.Ctx) error {
	product, err := c.inventoryService.GetProduct(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(product)
}

// AddProduct godoc
// @Summary      Add a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Security     AdminSession
// @Param        product  body      inventory.Product  true  "Product"
// @Success      201      {object}  inventory.Product
// @Failure      400      {object}  models.MessageResponse
// @Router       /api/admin/products [post]
func (c *InventoryController) AddProduct(ctx *fiber.Ctx) error {
	var product inventory.Product
	if err := ctx.BodyParser(&product); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid request body"})
	}

	created, err := c.inventoryService.AddProduct(ctx.UserContext(), product)
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct godoc
// @Summary      Edit a product
// @Description  Applies the fields present in the body; the sold counter cannot be edited
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Security     AdminSession
// @Param        id     path      string                  true  "Product ID"
// @Param        patch  body      inventory.ProductPatch  true  "Fields to change"
// @Success      200    {object}  inventory.Product
// @Failure      400    {object}  models.MessageResponse
// @Failure      404    {object}  models.MessageResponse
// @Failure      409    {object}  models.MessageResponse
// @Router       /api/admin/products/{id} [put]
func (c *InventoryController) UpdateProduct(ctx *fiber.Ctx) error {
	var patch inventory.ProductPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid request body"})
	}

	product, err := c.inventoryService.UpdateProduct(ctx.UserContext(), ctx.Params("id"), patch)
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(product)
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Tags         admin-products
// @Produce      json
// @Security     AdminSession
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.MessageResponse
// @Router       /api/admin/products/{id} [delete]
func (c *InventoryController) DeleteProduct(ctx *fiber.Ctx) error {
	if err := c.inventoryService.DeleteProduct(ctx.UserContext(), ctx.Params("id")); err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(models.MessageResponse{Message: "Product removed"})
}

// GetLowStockProducts godoc
// @Summary      Get low stock products
// @Description  Retrieves products whose stock, or any variant's stock, is below threshold
// @Tags         admin-products
// @Produce      json
// @Security     AdminSession
// @Param        threshold  path      int  true  "Stock threshold"
// @Success      200        {array}   inventory.Product
// @Failure      400        {object}  models.MessageResponse
// @Router       /api/admin/products/low-stock/{threshold} [get]
func (c *InventoryController) GetLowStockProducts(ctx *fiber.Ctx) error {
	threshold, err := strconv.Atoi(ctx.Params("threshold"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid threshold"})
	}

	products, err := c.inventoryService.LowStockProducts(ctx.UserContext(), threshold)
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}
	return ctx.JSON(products)
}
