package console

import (
	"context"
	"fmt"

	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/task"
)

// AddPayment appends a payment. An untagged payment is tagged by looking its
// payer up, students first.
// PRE: p.ID is set and unused; the payer exists
// POST: p is the last payment and carries a PayerKind; state saved
func (c *Console) AddPayment(ctx context.Context, p payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Payments, p.ID, paymentID); err != nil {
		return err
	}
	payer, err := c.resolvePayerLocked(p.PayerKind, p.PayerID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownPayer, p.PayerID)
	}
	p.PayerKind = payer.Kind
	c.state.Payments = append(c.state.Payments, p)
	return c.commitLocked(ctx, "add_payment")
}

// UpdatePayment merges patch into the payment with id. Re-pointing a payment
// requires the new payer to exist.
// POST: Returns ErrNotFound, ErrUnknownPayer or a validation error with state untouched
func (c *Console) UpdatePayment(ctx context.Context, id string, patch payment.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Payments, id, paymentID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.state.Payments[i]
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	if patch.ChangesPayer() {
		payer, err := c.resolvePayerLocked(updated.PayerKind, updated.PayerID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownPayer, updated.PayerID)
		}
		updated.PayerKind = payer.Kind
	}
	c.state.Payments[i] = updated
	return c.commitLocked(ctx, "update_payment")
}

// DeletePayment removes the payment with id.
func (c *Console) DeletePayment(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Payments, id, paymentID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Payments = removeAt(c.state.Payments, i)
	return c.commitLocked(ctx, "delete_payment")
}

// AddProduct appends a product to the store catalog.
func (c *Console) AddProduct(ctx context.Context, p product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Products, p.ID, productID); err != nil {
		return err
	}
	c.state.Products = append(c.state.Products, p)
	return c.commitLocked(ctx, "add_product")
}

// UpdateProduct merges patch into the product with id.
func (c *Console) UpdateProduct(ctx context.Context, id string, patch product.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Products, id, productID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.state.Products[i]
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	c.state.Products[i] = updated
	return c.commitLocked(ctx, "update_product")
}

// DeleteProduct removes the product with id.
func (c *Console) DeleteProduct(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Products, id, productID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Products = removeAt(c.state.Products, i)
	return c.commitLocked(ctx, "delete_product")
}

// AddTask appends an administrative task.
func (c *Console) AddTask(ctx context.Context, t task.AdminTask) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Tasks, t.ID, taskID); err != nil {
		return err
	}
	c.state.Tasks = append(c.state.Tasks, t.Clone())
	return c.commitLocked(ctx, "add_task")
}

// UpdateTask merges patch into the task with id.
func (c *Console) UpdateTask(ctx context.Context, id string, patch task.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Tasks, id, taskID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.state.Tasks[i].Clone()
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	c.state.Tasks[i] = updated
	return c.commitLocked(ctx, "update_task")
}

// DeleteTask removes the task with id.
func (c *Console) DeleteTask(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Tasks, id, taskID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Tasks = removeAt(c.state.Tasks, i)
	return c.commitLocked(ctx, "delete_task")
}
