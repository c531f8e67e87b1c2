package web

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/application/console"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/post"
	"dojohub/internal/domain/subscription"
)

// postView is a feed entry with its Markdown content rendered to HTML.
type postView struct {
	post.Post
	HTML template.HTML `json:"html"`
}

func renderPost(p post.Post) postView {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(p.Content), &buf); err != nil {
		slog.Warn("markdown_render_failed", "post_id", p.ID, "error", err.Error())
		return postView{Post: p, HTML: template.HTML(template.HTMLEscapeString(p.Content))}
	}
	return postView{Post: p, HTML: template.HTML(buf.String())}
}

// handlePostList handles GET /api/posts, newest first.
func handlePostList(w http.ResponseWriter, r *http.Request) {
	posts := consoleOf(r).Posts()
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, renderPost(p))
	}
	writeJSON(w, http.StatusOK, views)
}

type postRequest struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// handlePostCreate handles POST /api/posts. Author fields are copied from the
// viewer at post time.
func handlePostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	viewer, _ := middleware.GetIdentityFromContext(r.Context())
	p := post.Post{
		ID:         generateID(),
		AuthorID:   viewer.ProfileID,
		AuthorName: viewer.Name,
		Role:       viewer.Role,
		Content:    req.Content,
		Image:      req.Image,
		Timestamp:  timeNow(),
	}
	if err := consoleOf(r).AddPost(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderPost(p))
}

// handlePostDelete handles DELETE /api/posts/{id}. Authors may remove their
// own posts; the administrator may remove any.
func handlePostDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	viewer, _ := middleware.GetIdentityFromContext(r.Context())
	if !viewer.IsAdmin() {
		var found *post.Post
		for _, p := range consoleOf(r).Posts() {
			if p.ID == id {
				found = &p
				break
			}
		}
		if found == nil {
			writeError(w, console.ErrNotFound)
			return
		}
		if found.AuthorID != viewer.ProfileID {
			writeError(w, session.ErrForbidden)
			return
		}
	}
	if err := consoleOf(r).DeletePost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubscriptionGet handles GET /api/subscription
func handleSubscriptionGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consoleOf(r).Subscription())
}

// handleSubscriptionSet handles PUT /api/subscription
func handleSubscriptionSet(w http.ResponseWriter, r *http.Request) {
	var s subscription.Subscription
	if err := strictDecode(w, r, &s); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if s.StartDate.IsZero() {
		s.StartDate = timeNow()
	}
	if err := consoleOf(r).SetSubscription(r.Context(), s); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consoleOf(r).Subscription())
}

// handleSettingsGet handles GET /api/settings
func handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consoleOf(r).Settings())
}

// handleSettingsLogo handles PUT /api/settings/logo with {"logo": "data:..."}.
// A null or absent logo removes it.
func handleSettingsLogo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Logo *string `json:"logo"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if err := consoleOf(r).SetAcademyLogo(r.Context(), req.Logo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consoleOf(r).Settings())
}

// handleSettingsPremiumPrice handles PUT /api/settings/premium-staff-price with {"price": 30}.
func handleSettingsPremiumPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price *float64 `json:"price"`
	}
	if err := strictDecode(w, r, &req); err != nil || req.Price == nil {
		badRequest(w, "price is required")
		return
	}
	if err := consoleOf(r).SetPremiumStaffPrice(r.Context(), *req.Price); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consoleOf(r).Settings())
}

// handleSettingsPixKey handles PUT /api/settings/pix-key with {"value": "..."}.
func handleSettingsPixKey(w http.ResponseWriter, r *http.Request) {
	handleSettingString(w, r, consoleOf(r).SetAdminPixKey)
}

// handleSettingsPhone handles PUT /api/settings/phone with {"value": "..."}.
func handleSettingsPhone(w http.ResponseWriter, r *http.Request) {
	handleSettingString(w, r, consoleOf(r).SetAdminPhone)
}

func handleSettingString(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, v string) error) {
	var req struct {
		Value string `json:"value"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if err := set(r.Context(), req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consoleOf(r).Settings())
}
