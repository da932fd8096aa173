package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// OrderPayload is the checkout body for redeeming a product.
type OrderPayload struct {
	ProductID   string              `json:"product_id"`
	Quantity    int                 `json:"quantity"`
	UserAddress models.OrderAddress `json:"user_address"`
}

// CreateOrder places a redemption order for the signed-in user.
func (c *RewardsApiClient) CreateOrder(ctx context.Context, p OrderPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, OrderCreateEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// MyOrders lists the signed-in user's orders.
func (c *RewardsApiClient) MyOrders(ctx context.Context) ([]models.Order, error) {
	body, err := c.AuthGet(ctx, OrderViewEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Order](body), nil
}

// Orders lists every order (admin only).
func (c *RewardsApiClient) Orders(ctx context.Context) ([]models.Order, error) {
	body, err := c.AuthGet(ctx, OrderAllEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Order](body), nil
}

// UpdateOrderStatus transitions an order (admin only).
func (c *RewardsApiClient) UpdateOrderStatus(ctx context.Context, id, status string) (envelope.Ack, error) {
	payload := struct {
		OrderStatus string `json:"order_status"`
	}{OrderStatus: status}

	body, err := c.putJSON(ctx, OrderUpdateEndpoint+"/"+url.PathEscape(id), payload)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}
