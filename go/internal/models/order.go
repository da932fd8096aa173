package models

// Order statuses as the backend reports them.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderProduct is the product snapshot embedded in an order.
type OrderProduct struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	CoinPrice   int64   `json:"product_coin_price"`
	MainPrice   float64 `json:"product_main_price"`
}

// OrderAddress is the delivery address captured at checkout.
type OrderAddress struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	AddressLine string `json:"address_line"`
	District    string `json:"district"`
}

// Order is a product redemption. The backend historically emitted several
// spellings for the same fields (oder_id, quantaty); the API client
// normalizes everything to this shape before it reaches any view.
type Order struct {
	ID             string       `json:"_id"`
	OrderID        string       `json:"order_id"`
	UserEmail      string       `json:"user_email"`
	UserName       string       `json:"user_name"`
	Quantity       int          `json:"quantity"`
	OrderStatus    string       `json:"order_status"`
	ProductDetails OrderProduct `json:"product_details"`
	UserAddress    OrderAddress `json:"user_address"`
	CreatedAt      FlexTime     `json:"order_created_date"`
}

// TotalPrice is the cash total for the order.
func (o Order) TotalPrice() float64 {
	return o.ProductDetails.MainPrice * float64(o.Quantity)
}
