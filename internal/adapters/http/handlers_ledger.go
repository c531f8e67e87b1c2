package web

import (
	"net/http"

	"dojohub/internal/application/projections"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/task"
)

// handlePaymentLedger handles GET /api/payments?status=&payerKind=&payerId=
func handlePaymentLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetPaymentLedger(r.Context(), projections.GetPaymentLedgerQuery{
		Status:    q.Get("status"),
		PayerKind: payment.PayerKind(q.Get("payerKind")),
		PayerID:   q.Get("payerId"),
	}, projections.GetPaymentLedgerDeps{Source: consoleOf(r)})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePaymentCreate handles POST /api/payments. An untagged payer is looked up.
func handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	var p payment.Payment
	if err := strictDecode(w, r, &p); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if p.ID == "" {
		p.ID = generateID()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = timeNow()
	}
	if p.Status == "" {
		p.Status = payment.StatusPending
	}
	if err := consoleOf(r).AddPayment(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	// Return the stored copy, which carries the resolved payer kind.
	for _, sp := range consoleOf(r).Payments() {
		if sp.ID == p.ID {
			p = sp
			break
		}
	}
	writeJSON(w, http.StatusCreated, p)
}

// handlePaymentUpdate handles PATCH /api/payments/{id}
func handlePaymentUpdate(w http.ResponseWriter, r *http.Request) {
	var patch payment.Patch
	if err := strictDecode(w, r, &patch); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	id := r.PathValue("id")
	if err := consoleOf(r).UpdatePayment(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	for _, p := range consoleOf(r).Payments() {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePaymentDelete handles DELETE /api/payments/{id}
func handlePaymentDelete(w http.ResponseWriter, r *http.Request) {
	if err := consoleOf(r).DeletePayment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProductList handles GET /api/products
func handleProductList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consoleOf(r).Products())
}

// handleProductCreate handles POST /api/products
func handleProductCreate(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := strictDecode(w, r, &p); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if p.ID == "" {
		p.ID = generateID()
	}
	if err := consoleOf(r).AddProduct(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleProductUpdate handles PATCH /api/products/{id}
func handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	var patch product.Patch
	if err := strictDecode(w, r, &patch); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	id := r.PathValue("id")
	if err := consoleOf(r).UpdateProduct(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	for _, p := range consoleOf(r).Products() {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProductDelete handles DELETE /api/products/{id}
func handleProductDelete(w http.ResponseWriter, r *http.Request) {
	if err := consoleOf(r).DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTaskList handles GET /api/tasks
func handleTaskList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consoleOf(r).Tasks())
}

// handleTaskCreate handles POST /api/tasks
func handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var t task.AdminTask
	if err := strictDecode(w, r, &t); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if t.ID == "" {
		t.ID = generateID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = timeNow()
	}
	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if err := consoleOf(r).AddTask(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleTaskUpdate handles PATCH /api/tasks/{id}
func handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	var patch task.Patch
	if err := strictDecode(w, r, &patch); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	id := r.PathValue("id")
	if err := consoleOf(r).UpdateTask(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	for _, t := range consoleOf(r).Tasks() {
		if t.ID == id {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTaskDelete handles DELETE /api/tasks/{id}
func handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := consoleOf(r).DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
