package console

import (
	"context"

	"dojohub/internal/domain/post"
	"dojohub/internal/domain/settings"
	"dojohub/internal/domain/snapshot"
	"dojohub/internal/domain/subscription"
)

// AddPost prepends a post to the community feed.
// POST: p is the first post; state saved
func (c *Console) AddPost(ctx context.Context, p post.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Posts, p.ID, postID); err != nil {
		return err
	}
	posts := make([]post.Post, 0, len(c.state.Posts)+1)
	posts = append(posts, p)
	c.state.Posts = append(posts, c.state.Posts...)
	return c.commitLocked(ctx, "add_post")
}

// DeletePost removes a post from the feed.
func (c *Console) DeletePost(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Posts, id, postID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Posts = removeAt(c.state.Posts, i)
	return c.commitLocked(ctx, "delete_post")
}

// SetSubscription replaces the academy's plan.
func (c *Console) SetSubscription(ctx context.Context, s subscription.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Subscription = s
	return c.commitLocked(ctx, "set_subscription")
}

// SetAcademyLogo replaces the academy logo. nil removes it.
func (c *Console) SetAcademyLogo(ctx context.Context, logo *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logo != nil {
		v := *logo
		logo = &v
	}
	c.state.Settings.AcademyLogo = logo
	return c.commitLocked(ctx, "set_academy_logo")
}

// SetPremiumStaffPrice replaces the monthly price of premium staff accounts.
func (c *Console) SetPremiumStaffPrice(ctx context.Context, price float64) error {
	if err := settings.ValidatePremiumStaffPrice(price); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Settings.PremiumStaffPrice = price
	return c.commitLocked(ctx, "set_premium_staff_price")
}

// SetAdminPixKey replaces the administrator's PIX key.
func (c *Console) SetAdminPixKey(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Settings.AdminPixKey = key
	return c.commitLocked(ctx, "set_admin_pix_key")
}

// SetAdminPhone replaces the administrator's contact phone.
func (c *Console) SetAdminPhone(ctx context.Context, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Settings.AdminPhone = phone
	return c.commitLocked(ctx, "set_admin_phone")
}

// Replace swaps the whole state for s, as an import does.
// POST: state equals s with payer kinds resolved; state saved
func (c *Console) Replace(ctx context.Context, s snapshot.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s.Clone()
	c.state.ResolvePayerKinds()
	return c.commitLocked(ctx, "replace")
}
