package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// ProductPayload is the create/update body for a catalog product.
type ProductPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	CoinPrice   int64   `json:"coin_price"`
	MainPrice   float64 `json:"main_price"`
}

// Products lists the whole catalog.
func (c *RewardsApiClient) Products(ctx context.Context) ([]models.Product, error) {
	body, err := c.Get(ctx, ProductsEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Product](body), nil
}

// ProductsByCategory lists the catalog filtered by category.
func (c *RewardsApiClient) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	body, err := c.Get(ctx, ProductCategoryEndpoint+"?cat="+url.QueryEscape(category))
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Product](body), nil
}

// CreateProduct adds a catalog product (admin only).
func (c *RewardsApiClient) CreateProduct(ctx context.Context, p ProductPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, ProductCreateEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// UpdateProduct replaces a catalog product (admin only).
func (c *RewardsApiClient) UpdateProduct(ctx context.Context, id string, p ProductPayload) (envelope.Ack, error) {
	body, err := c.putJSON(ctx, ProductUpdateEndpoint+"/"+url.PathEscape(id), p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// DeleteProduct removes a catalog product (admin only).
func (c *RewardsApiClient) DeleteProduct(ctx context.Context, id string) (envelope.Ack, error) {
	body, err := c.AuthDelete(ctx, ProductDeleteEndpoint+"/"+url.PathEscape(id))
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}
