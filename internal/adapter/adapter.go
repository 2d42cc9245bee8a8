// Package adapter reshapes canonical orders into the payloads expected by
// downstream order services.
package adapter

import (
	"strings"

	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type ServiceType string

const (
	ServiceDefault     ServiceType = "default"
	ServiceShopify     ServiceType = "shopify"
	ServiceWooCommerce ServiceType = "woocommerce"
)

// ProductIDs resolves storefront product ids from product codes.
type ProductIDs interface {
	ExternalID(code string) int64
}

// Adapter maps orders to service payloads. It holds no mutable state.
type Adapter struct {
	ids ProductIDs
}

// New returns an adapter. ids may be nil, in which case every product id is 0.
func New(ids ProductIDs) *Adapter {
	return &Adapter{ids: ids}
}

// ParseServiceType maps free text to a known service, defaulting to ServiceDefault.
func ParseServiceType(s string) ServiceType {
	switch ServiceType(strings.ToLower(strings.TrimSpace(s))) {
	case ServiceShopify:
		return ServiceShopify
	case ServiceWooCommerce:
		return ServiceWooCommerce
	}
	return ServiceDefault
}

// Prepare returns the payload for serviceType. Unknown types use the default shape.
func (a *Adapter) Prepare(o *entity.OrderStructure, serviceType string) any {
	switch ParseServiceType(serviceType) {
	case ServiceShopify:
		return a.Shopify(o)
	case ServiceWooCommerce:
		return a.WooCommerce(o)
	}
	return a.Default(o)
}

func (a *Adapter) productID(code string) int64 {
	if a == nil || a.ids == nil || code == "" {
		return 0
	}
	return a.ids.ExternalID(code)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func first(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	return optional(list[0])
}
