package store

import (
	"context"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpFetchCart          = KeyCart + "/fetch"
	OpAddToCart          = KeyCart + "/add"
	OpUpdateCartQuantity = KeyCart + "/updateQuantity"
	OpRemoveFromCart     = KeyCart + "/remove"
	OpClearCart          = KeyCart + "/clear"

	OpCreateOrder       = KeyOrders + "/create"
	OpFetchMyOrders     = KeyOrders + "/fetchMine"
	OpFetchAllOrders    = KeyOrders + "/fetchAll"
	OpUpdateOrderStatus = KeyOrders + "/updateStatus"
)

var orderMerges = map[string]state.Merge{
	OpCreateOrder:       state.MergeAppend,
	OpFetchMyOrders:     state.MergeReplaceAll,
	OpFetchAllOrders:    state.MergeReplaceAll,
	OpUpdateOrderStatus: state.MergeReplace,
}

func (s *Store) FetchCart(ctx context.Context) (marketplace.Cart, error) {
	return run[marketplace.Cart](ctx, s, operation(OpFetchCart, nil, s.client.Carts().Get))
}

func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) (marketplace.Cart, error) {
	op := operation(OpAddToCart, productID, func(ctx context.Context) (marketplace.Cart, error) {
		return s.client.Carts().Add(ctx, productID, quantity)
	}).notifying("Added to cart")
	return run[marketplace.Cart](ctx, s, op)
}

func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, quantity int) (marketplace.Cart, error) {
	op := operation(OpUpdateCartQuantity, productID, func(ctx context.Context) (marketplace.Cart, error) {
		return s.client.Carts().UpdateQuantity(ctx, productID, quantity)
	})
	return run[marketplace.Cart](ctx, s, op)
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) (marketplace.Cart, error) {
	op := operation(OpRemoveFromCart, productID, func(ctx context.Context) (marketplace.Cart, error) {
		return s.client.Carts().Remove(ctx, productID)
	}).notifying("Removed from cart")
	return run[marketplace.Cart](ctx, s, op)
}

func (s *Store) ClearCart(ctx context.Context) (marketplace.Cart, error) {
	return run[marketplace.Cart](ctx, s, operation(OpClearCart, nil, s.client.Carts().Clear).notifying("Cart cleared"))
}

// reduceCart replaces the cart wholesale with whatever the backend returned.
func reduceCart(c state.Item[marketplace.Cart], a state.Action) state.Item[marketplace.Cart] {
	switch opName(a) {
	case opReset:
		return c.Reset()
	case opClearSelected:
		return c
	}
	return state.ReduceItem(c, a)
}

// CreateOrder places an order. The backend empties the cart, so the local
// cart is refetched afterwards; a failed refetch does not fail the order.
func (s *Store) CreateOrder(ctx context.Context, req marketplace.CreateOrderRequest) (marketplace.Order, error) {
	op := operation(OpCreateOrder, nil, func(ctx context.Context) (marketplace.Order, error) {
		return s.client.Orders().Create(ctx, req)
	}).notifying("Order placed successfully")
	order, err := run[marketplace.Order](ctx, s, op)
	if err != nil {
		return order, err
	}
	_, _ = s.FetchCart(ctx)
	return order, nil
}

func (s *Store) FetchMyOrders(ctx context.Context) ([]marketplace.Order, error) {
	return run[[]marketplace.Order](ctx, s, operation(OpFetchMyOrders, nil, s.client.Orders().Mine))
}

func (s *Store) FetchAllOrders(ctx context.Context) ([]marketplace.Order, error) {
	return run[[]marketplace.Order](ctx, s, operation(OpFetchAllOrders, nil, s.client.Orders().All))
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (marketplace.Order, error) {
	op := operation(OpUpdateOrderStatus, id, func(ctx context.Context) (marketplace.Order, error) {
		return s.client.Orders().UpdateStatus(ctx, id, status)
	}).notifying("Order updated")
	return run[marketplace.Order](ctx, s, op)
}
