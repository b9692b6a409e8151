package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer     Role = "customer"
	RoleShopOwner    Role = "shop_owner"
	RoleSeller       Role = "seller"
	RoleStoreManager Role = "store_manager"
	RoleAdmin        Role = "admin"
)

// Tier folds the backend's seller and store manager roles into the shop owner tier.
func (r Role) Tier() Role {
	switch r {
	case RoleShopOwner, RoleSeller, RoleStoreManager:
		return RoleShopOwner
	default:
		return r
	}
}

func (r Role) IsCustomer() bool  { return r.Tier() == RoleCustomer }
func (r Role) IsShopOwner() bool { return r.Tier() == RoleShopOwner }

type Profile struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	Country     string `json:"country,omitempty"`
	Province    string `json:"province,omitempty"`
	District    string `json:"district,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Street      string `json:"street,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender,omitempty"`
	Role      Role     `json:"role"`
	Profile   *Profile `json:"profile,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Registration struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Gender          string `json:"gender,omitempty"`
	Role            Role   `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ProfilePatch carries only the fields being changed.
type ProfilePatch struct {
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Gender    *string  `json:"gender,omitempty"`
	Profile   *Profile `json:"profile,omitempty"`
}

type ProductImage struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"product_name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit,omitempty"`
	Category      *int64          `json:"category,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	AverageRating float64         `json:"average_rating"`
	InStock       bool            `json:"in_stock"`
	Images        []ProductImage  `json:"product_images,omitempty"`
}

// MainImage is the first image url or "" when the product has none.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Image
}

type ShopOverview struct {
	Categories       []Category `json:"categories"`
	FeaturedProducts []Product  `json:"featured_products"`
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

type OrderItem struct {
	Product  int64           `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type PaymentDetails struct {
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

type OrderRequest struct {
	ShippingAddress string          `json:"shipping_address"`
	OrderNote       string          `json:"order_note,omitempty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Items           []OrderItem     `json:"items"`
	PaymentDetails  *PaymentDetails `json:"payment_details,omitempty"`
}

type Payment struct {
	ID            int64           `json:"id"`
	Order         int64           `json:"order,omitempty"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
}

type Order struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	OrderNote       string          `json:"order_note,omitempty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Items           []OrderItem     `json:"items"`
	Payment         *Payment        `json:"payment,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
}

type WishlistEntry struct {
	ID      int64   `json:"id"`
	Product Product `json:"product"`
}

type StockMovement struct {
	ID           int64      `json:"id"`
	Product      int64      `json:"product"`
	MovementType string     `json:"movement_type"`
	Quantity     int        `json:"quantity"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type Review struct {
	ID        int64      `json:"id"`
	Product   int64      `json:"product"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment,omitempty"`
	Reply     string     `json:"reply,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type InventoryItem struct {
	Product  int64  `json:"product"`
	Name     string `json:"product_name"`
	Quantity int    `json:"quantity"`
	InStock  bool   `json:"in_stock"`
}

// Dashboard and Analytics are shaped by the backend and passed through untouched.
type Dashboard map[string]any

type Analytics map[string]any

type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}
