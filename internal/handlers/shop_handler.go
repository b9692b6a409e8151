package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/validate"
)

type ShopHandler struct {
	API     *apiclient.Client
	Session *session.Manager
}

func (h *ShopHandler) acc() account { return account{API: h.API, Session: h.Session} }

func (h *ShopHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.dashboard", http.StatusOK, func(tok string) (models.Dashboard, error) {
		return h.API.ShopDashboard(ctx, tok)
	})
}

func (h *ShopHandler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.analytics", http.StatusOK, func(tok string) (models.Analytics, error) {
		return h.API.ShopAnalytics(ctx, tok)
	})
}

func (h *ShopHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.categories", http.StatusOK, func(tok string) (models.Page[models.Category], error) {
		return h.API.ShopCategories(ctx, tok)
	})
}

func (h *ShopHandler) CreateCategory(c echo.Context) error {
	const name = "shop.category_create"
	var cat models.Category
	if err := bind(c, name, &cat); err != nil {
		return err
	}
	if err := validate.Required("name", cat.Name); err != nil {
		return fail(c, name, err)
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusCreated, func(tok string) (models.Category, error) {
		return h.API.CreateCategory(ctx, tok, cat)
	})
}

func (h *ShopHandler) UpdateCategory(c echo.Context) error {
	const name = "shop.category_update"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	var cat models.Category
	if err := bind(c, name, &cat); err != nil {
		return err
	}
	cat.ID = id
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Category, error) {
		return h.API.UpdateCategory(ctx, tok, cat)
	})
}

func (h *ShopHandler) DeleteCategory(c echo.Context) error {
	const name = "shop.category_delete"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.DeleteCategory(ctx, tok, id)
	})
}

func (h *ShopHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.products", http.StatusOK, func(tok string) (models.Page[models.Product], error) {
		return h.API.ShopProducts(ctx, tok)
	})
}

func validateProduct(p models.Product) error {
	if err := validate.Required("product_name", p.Name); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return apperr.Validation("price", "price must be positive")
	}
	if p.Quantity < 0 {
		return apperr.Validation("quantity", "quantity cannot be negative")
	}
	return nil
}

func (h *ShopHandler) CreateProduct(c echo.Context) error {
	const name = "shop.product_create"
	var p models.Product
	if err := bind(c, name, &p); err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return fail(c, name, err)
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusCreated, func(tok string) (models.Product, error) {
		return h.API.CreateProduct(ctx, tok, p)
	})
}

func (h *ShopHandler) UpdateProduct(c echo.Context) error {
	const name = "shop.product_update"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	var p models.Product
	if err := bind(c, name, &p); err != nil {
		return err
	}
	p.ID = id
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Product, error) {
		return h.API.UpdateProduct(ctx, tok, p)
	})
}

func (h *ShopHandler) DeleteProduct(c echo.Context) error {
	const name = "shop.product_delete"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.DeleteProduct(ctx, tok, id)
	})
}

func (h *ShopHandler) ProductImages(c echo.Context) error {
	const name = "shop.product_images"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Page[models.ProductImage], error) {
		return h.API.ProductImages(ctx, tok, id)
	})
}

func (h *ShopHandler) DeleteProductImage(c echo.Context) error {
	const name = "shop.product_image_delete"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	imageID, err := paramID(c, name, "image_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.DeleteProductImage(ctx, tok, id, imageID)
	})
}

func (h *ShopHandler) StockMovements(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.stock_movements", http.StatusOK, func(tok string) (models.Page[models.StockMovement], error) {
		return h.API.StockMovements(ctx, tok)
	})
}

func (h *ShopHandler) CreateStockMovement(c echo.Context) error {
	const name = "shop.stock_movement_create"
	var m models.StockMovement
	if err := bind(c, name, &m); err != nil {
		return err
	}
	if m.Product <= 0 {
		return fail(c, name, apperr.Validation("product", "product is required"))
	}
	if m.Quantity < 1 {
		return fail(c, name, apperr.Validation("quantity", "quantity must be at least 1"))
	}
	if m.MovementType != "Stock In" && m.MovementType != "Stock Out" {
		return fail(c, name, apperr.Validation("movement_type", "movement type must be Stock In or Stock Out"))
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusCreated, func(tok string) (models.StockMovement, error) {
		return h.API.CreateStockMovement(ctx, tok, m)
	})
}

func (h *ShopHandler) Inventory(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.inventory", http.StatusOK, func(tok string) (models.Page[models.InventoryItem], error) {
		return h.API.Inventory(ctx, tok)
	})
}

func (h *ShopHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.orders", http.StatusOK, func(tok string) (models.Page[models.Order], error) {
		return h.API.ShopOrders(ctx, tok)
	})
}

func (h *ShopHandler) UpdateOrderStatus(c echo.Context) error {
	const name = "shop.order_update"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := validate.Required("status", req.Status); err != nil {
		return fail(c, name, err)
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Order, error) {
		return h.API.UpdateOrderStatus(ctx, tok, id, req.Status)
	})
}

func (h *ShopHandler) Payments(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.payments", http.StatusOK, func(tok string) (models.Page[models.Payment], error) {
		return h.API.ShopPayments(ctx, tok)
	})
}

func (h *ShopHandler) Reviews(c echo.Context) error {
	ctx := c.Request().Context()
	return respond(h.acc(), c, "shop.reviews", http.StatusOK, func(tok string) (models.Page[models.Review], error) {
		return h.API.ShopReviews(ctx, tok)
	})
}

func (h *ShopHandler) ReplyToReview(c echo.Context) error {
	const name = "shop.review_reply"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	var req struct {
		Reply string `json:"reply"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := validate.Required("reply", req.Reply); err != nil {
		return fail(c, name, err)
	}
	ctx := c.Request().Context()
	return respond(h.acc(), c, name, http.StatusOK, func(tok string) (models.Review, error) {
		return h.API.ReplyToReview(ctx, tok, id, req.Reply)
	})
}

func (h *ShopHandler) DeleteReview(c echo.Context) error {
	const name = "shop.review_delete"
	id, err := paramID(c, name, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return respondEmpty(h.acc(), c, name, func(tok string) error {
		return h.API.DeleteShopReview(ctx, tok, id)
	})
}
