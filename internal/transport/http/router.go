package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Deps struct {
	Session  *session.Manager
	API      *guard.Table
	Cart     *handlers.CartHandler
	Auth     *handlers.SessionHandler
	Checkout *handlers.CheckoutHandler
	Catalog  *handlers.CatalogHandler
	Customer *handlers.CustomerHandler
	Shop     *handlers.ShopHandler
	Routes   *handlers.RoutesHandler
	Notices  *handlers.NoticesHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Session.Snapshot().State == session.StateUnknown {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	table := d.API
	if table == nil {
		table = guard.API()
	}
	v1 := e.Group("/api/v1", guard.Middleware(table, d.Session.Snapshot))

	cart := v1.Group("/cart")
	cart.GET("", d.Cart.Get)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)

	s := v1.Group("/session")
	s.GET("", d.Auth.Get)
	s.POST("/hydrate", d.Auth.Hydrate)
	s.POST("/login", d.Auth.Login)
	s.POST("/logout", d.Auth.Logout)
	s.POST("/signup", d.Auth.Signup)
	s.POST("/activation/verify", d.Auth.VerifyActivationOTP)
	s.POST("/activation/resend", d.Auth.ResendActivationOTP)
	s.POST("/password-reset/email", d.Auth.PasswordResetEmail)
	s.POST("/password-reset/otp", d.Auth.PasswordResetOTP)
	s.POST("/password-reset/confirm", d.Auth.PasswordResetConfirm)
	s.PUT("/password", d.Auth.ChangePassword)
	s.PATCH("/profile", d.Auth.UpdateProfile)
	s.DELETE("/profile", d.Auth.DeleteAccount)

	v1.POST("/checkout", d.Checkout.PlaceOrder)

	catalog := v1.Group("/catalog")
	catalog.GET("/overview", d.Catalog.Overview)
	catalog.GET("/products", d.Catalog.Products)
	catalog.GET("/products/:id", d.Catalog.Product)
	catalog.GET("/search", d.Catalog.SearchProducts)

	customer := v1.Group("/customer")
	customer.GET("/dashboard", d.Customer.Dashboard)
	customer.GET("/orders", d.Customer.Orders)
	customer.GET("/orders/:id", d.Customer.Order)
	customer.GET("/wishlist", d.Customer.Wishlist)
	customer.POST("/wishlist", d.Customer.AddToWishlist)
	customer.DELETE("/wishlist/:id", d.Customer.RemoveFromWishlist)
	customer.GET("/reviews", d.Customer.Reviews)
	customer.POST("/reviews", d.Customer.CreateReview)
	customer.DELETE("/reviews/:id", d.Customer.DeleteReview)

	shop := v1.Group("/shop")
	shop.GET("/dashboard", d.Shop.Dashboard)
	shop.GET("/analytics", d.Shop.Analytics)
	shop.GET("/categories", d.Shop.Categories)
	shop.POST("/categories", d.Shop.CreateCategory)
	shop.PATCH("/categories/:id", d.Shop.UpdateCategory)
	shop.DELETE("/categories/:id", d.Shop.DeleteCategory)
	shop.GET("/products", d.Shop.Products)
	shop.POST("/products", d.Shop.CreateProduct)
	shop.PATCH("/products/:id", d.Shop.UpdateProduct)
	shop.DELETE("/products/:id", d.Shop.DeleteProduct)
	shop.GET("/products/:id/images", d.Shop.ProductImages)
	shop.DELETE("/products/:id/images/:image_id", d.Shop.DeleteProductImage)
	shop.GET("/stock-movements", d.Shop.StockMovements)
	shop.POST("/stock-movements", d.Shop.CreateStockMovement)
	shop.GET("/inventory", d.Shop.Inventory)
	shop.GET("/orders", d.Shop.Orders)
	shop.PATCH("/orders/:id", d.Shop.UpdateOrderStatus)
	shop.GET("/payments", d.Shop.Payments)
	shop.GET("/reviews", d.Shop.Reviews)
	shop.POST("/reviews/:id/reply", d.Shop.ReplyToReview)
	shop.DELETE("/reviews/:id", d.Shop.DeleteReview)

	v1.GET("/routes/check", d.Routes.Check)
	v1.GET("/notices", d.Notices.Drain)
}
