package devbackend

import (
	"fmt"
	"slices"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// Callers hold b.mu.
func (b *Backend) cartView(owner string) marketplace.Cart {
	c, _ := b.carts.get(owner)
	out := marketplace.Cart{Items: slices.Clone(c.items)}
	if out.Items == nil {
		out.Items = []marketplace.CartItem{}
	}
	for _, it := range out.Items {
		out.Total += it.Price * float64(it.Quantity)
	}
	return out
}

func (b *Backend) Cart(owner string) marketplace.Cart {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cartView(owner)
}

func (b *Backend) AddToCart(owner, productID string, quantity int) (marketplace.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.products.get(productID)
	if !ok {
		return marketplace.Cart{}, fmt.Errorf("%w: product", ErrNotFound)
	}

	c, _ := b.carts.get(owner)
	c.owner = owner
	items := slices.Clone(c.items)
	i := slices.IndexFunc(items, func(it marketplace.CartItem) bool { return it.ProductID == productID })
	if i >= 0 {
		items[i].Quantity += quantity
	} else {
		items = append(items, marketplace.CartItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: quantity})
	}
	c.items = items
	b.carts.put(c)
	return b.cartView(owner), nil
}

// UpdateCartQuantity sets the quantity of one line; zero removes it.
func (b *Backend) UpdateCartQuantity(owner, productID string, quantity int) (marketplace.Cart, error) {
	if quantity < 0 {
		return marketplace.Cart{}, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c, _ := b.carts.get(owner)
	items := slices.Clone(c.items)
	i := slices.IndexFunc(items, func(it marketplace.CartItem) bool { return it.ProductID == productID })
	if i < 0 {
		return marketplace.Cart{}, fmt.Errorf("%w: item not in cart", ErrNotFound)
	}
	if quantity == 0 {
		items = slices.Delete(items, i, i+1)
	} else {
		items[i].Quantity = quantity
	}
	c.owner, c.items = owner, items
	b.carts.put(c)
	return b.cartView(owner), nil
}

func (b *Backend) RemoveFromCart(owner, productID string) (marketplace.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, _ := b.carts.get(owner)
	c.owner = owner
	c.items = slices.DeleteFunc(slices.Clone(c.items), func(it marketplace.CartItem) bool { return it.ProductID == productID })
	b.carts.put(c)
	return b.cartView(owner), nil
}

func (b *Backend) ClearCart(owner string) marketplace.Cart {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.carts.remove(owner)
	return b.cartView(owner)
}

// CreateOrder orders the given items, or the whole cart when none are given,
// and empties the cart. Prices come from the catalogue.
func (b *Backend) CreateOrder(owner string, req marketplace.CreateOrderRequest) (marketplace.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := req.Items
	if len(lines) == 0 {
		c, _ := b.carts.get(owner)
		for _, it := range c.items {
			lines = append(lines, marketplace.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	if len(lines) == 0 {
		return marketplace.Order{}, ErrEmptyCart
	}

	order := marketplace.Order{ID: newID(), UserID: owner, Status: "pending", Address: req.Address}
	for _, l := range lines {
		p, ok := b.products.get(l.ProductID)
		if !ok {
			return marketplace.Order{}, fmt.Errorf("%w: product %s", ErrNotFound, l.ProductID)
		}
		if l.Quantity <= 0 {
			return marketplace.Order{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		order.Items = append(order.Items, marketplace.OrderItem{ProductID: p.ID, Quantity: l.Quantity, Price: p.Price})
		order.Total += p.Price * float64(l.Quantity)
	}
	b.orders.put(order)
	b.carts.remove(owner)
	return order, nil
}

func (b *Backend) OrdersFor(owner string) []marketplace.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.orders.list(func(o marketplace.Order) bool { return o.UserID == owner })
}

func (b *Backend) Orders() []marketplace.Order { return readAll(b, b.orders) }

func (b *Backend) UpdateOrderStatus(id, status string) (marketplace.Order, error) {
	if status == "" {
		return marketplace.Order{}, fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders.get(id)
	if !ok {
		return o, ErrNotFound
	}
	o.Status = status
	b.orders.put(o)
	return o, nil
}

func (b *Backend) BookLabTest(owner string, req marketplace.LabBookingRequest) (marketplace.LabBooking, error) {
	if req.TestID == "" || req.Date == "" {
		return marketplace.LabBooking{}, fmt.Errorf("%w: test and date are required", ErrInvalidInput)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	test, ok := b.labTests.get(req.TestID)
	if !ok {
		return marketplace.LabBooking{}, fmt.Errorf("%w: lab test", ErrNotFound)
	}
	clinic := req.ClinicID
	if clinic == "" {
		clinic = test.ClinicID
	}
	lb := marketplace.LabBooking{ID: newID(), TestID: test.ID, ClinicID: clinic, PatientID: owner, Date: req.Date, Status: "booked"}
	b.labBookings.put(lb)
	return lb, nil
}

func (b *Backend) LabBookings(owner string) []marketplace.LabBooking {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.labBookings.list(func(l marketplace.LabBooking) bool { return l.PatientID == owner })
}

func (b *Backend) AttachReport(owner, bookingID, filename string) (marketplace.LabBooking, error) {
	if filename == "" {
		return marketplace.LabBooking{}, fmt.Errorf("%w: report file is required", ErrInvalidInput)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	lb, ok := b.labBookings.get(bookingID)
	if !ok {
		return lb, ErrNotFound
	}
	if lb.PatientID != owner {
		return lb, ErrForbidden
	}
	lb.ReportURL = "/uploads/reports/" + lb.ID + "/" + filename
	lb.Status = "reported"
	b.labBookings.put(lb)
	return lb, nil
}
