// Package snapshot defines the complete serialisable state of the academy and
// the JSON record it is stored as.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/post"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/settings"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
	"dojohub/internal/domain/task"
)

// RecordKey is the fixed, versioned key the record lives under in the durable store.
const RecordKey = "gestao_bjj_elite_data_v2"

// Load errors
var (
	// ErrFirstRun signals that no usable record exists and first-run content
	// should be seeded.
	ErrFirstRun = errors.New("no stored snapshot")
	// ErrMalformedRecord is returned when a stored record cannot be parsed.
	ErrMalformedRecord = errors.New("stored record is malformed")
)

// Snapshot is the complete state of the academy at one instant.
type Snapshot struct {
	Students     []student.Student
	Instructors  []instructor.Instructor
	Tasks        []task.AdminTask
	Payments     []payment.Payment
	Posts        []post.Post
	Products     []product.Product
	Subscription subscription.Subscription
	Settings     settings.Settings
}

// Empty returns a snapshot with empty collections and default scalars.
// This is what a record with every field absent decodes to.
func Empty(now time.Time) Snapshot {
	return Snapshot{
		Students:     []student.Student{},
		Instructors:  []instructor.Instructor{},
		Tasks:        []task.AdminTask{},
		Payments:     []payment.Payment{},
		Posts:        []post.Post{},
		Products:     []product.Product{},
		Subscription: subscription.Default(now),
		Settings:     settings.Defaults(),
	}
}

// FirstRun returns the content seeded when no record exists yet: default
// scalars, the welcome post, and nothing else.
func FirstRun(now time.Time) Snapshot {
	s := Empty(now)
	s.Posts = []post.Post{post.Welcome(now)}
	return s
}

// Clone returns a deep copy so callers can never alias the owner's slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Students:     make([]student.Student, len(s.Students)),
		Instructors:  make([]instructor.Instructor, len(s.Instructors)),
		Tasks:        make([]task.AdminTask, len(s.Tasks)),
		Payments:     make([]payment.Payment, len(s.Payments)),
		Posts:        make([]post.Post, len(s.Posts)),
		Products:     make([]product.Product, len(s.Products)),
		Subscription: s.Subscription,
		Settings:     s.Settings.Clone(),
	}
	for i, v := range s.Students {
		out.Students[i] = v.Clone()
	}
	for i, v := range s.Instructors {
		out.Instructors[i] = v.Clone()
	}
	for i, v := range s.Tasks {
		out.Tasks[i] = v.Clone()
	}
	copy(out.Payments, s.Payments)
	copy(out.Posts, s.Posts)
	copy(out.Products, s.Products)
	return out
}

// record is the wire shape. Pointers distinguish an absent field from a zero one.
type record struct {
	Students          *[]student.Student       `json:"students"`
	Instructors       *[]instructor.Instructor `json:"instructors"`
	Tasks             *[]task.AdminTask        `json:"tasks"`
	Payments          *[]payment.Payment       `json:"payments"`
	Posts             *[]post.Post             `json:"posts"`
	AcademyLogo       *string                  `json:"academyLogo"`
	Subscription      *subscriptionRecord      `json:"subscription"`
	Products          *[]product.Product       `json:"products"`
	PremiumStaffPrice *float64                 `json:"premiumStaffPrice"`
	AdminPixKey       *string                  `json:"adminPixKey"`
	AdminPhone        *string                  `json:"adminPhone"`
}

// subscriptionRecord is the wire shape of the plan. Each field falls back to
// the default plan on its own.
type subscriptionRecord struct {
	Plan         *string    `json:"plan"`
	StartDate    *time.Time `json:"startDate"`
	StudentLimit *int       `json:"studentLimit"`
	Price        *float64   `json:"price"`
}

func (r subscriptionRecord) merge(sub subscription.Subscription) subscription.Subscription {
	if r.Plan != nil && strings.TrimSpace(*r.Plan) != "" {
		sub.Plan = *r.Plan
	}
	if r.StartDate != nil && !r.StartDate.IsZero() {
		sub.StartDate = *r.StartDate
	}
	if r.StudentLimit != nil && *r.StudentLimit > 0 {
		sub.StudentLimit = *r.StudentLimit
	}
	if r.Price != nil {
		sub.Price = *r.Price
	}
	return sub
}

// Encode serialises the whole snapshot into one record.
// POST: every top-level field is present; collections are never null
func Encode(s Snapshot) ([]byte, error) {
	s = s.Clone()
	sub := subscriptionRecord{
		Plan:         &s.Subscription.Plan,
		StartDate:    &s.Subscription.StartDate,
		StudentLimit: &s.Subscription.StudentLimit,
		Price:        &s.Subscription.Price,
	}
	rec := record{
		Students:          &s.Students,
		Instructors:       &s.Instructors,
		Tasks:             &s.Tasks,
		Payments:          &s.Payments,
		Posts:             &s.Posts,
		AcademyLogo:       s.Settings.AcademyLogo,
		Subscription:      &sub,
		Products:          &s.Products,
		PremiumStaffPrice: &s.Settings.PremiumStaffPrice,
		AdminPixKey:       &s.Settings.AdminPixKey,
		AdminPhone:        &s.Settings.AdminPhone,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a record, substituting defaults for every absent or null field.
// PRE: data is the raw record value
// POST: Returns a fully populated snapshot, or ErrMalformedRecord
func Decode(data []byte, now time.Time) (Snapshot, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	s := Empty(now)
	if rec.Students != nil && *rec.Students != nil {
		s.Students = *rec.Students
	}
	if rec.Instructors != nil && *rec.Instructors != nil {
		s.Instructors = *rec.Instructors
	}
	if rec.Tasks != nil && *rec.Tasks != nil {
		s.Tasks = *rec.Tasks
	}
	if rec.Payments != nil && *rec.Payments != nil {
		s.Payments = *rec.Payments
	}
	if rec.Posts != nil && *rec.Posts != nil {
		s.Posts = *rec.Posts
	}
	if rec.Products != nil && *rec.Products != nil {
		s.Products = *rec.Products
	}
	if rec.Subscription != nil {
		s.Subscription = rec.Subscription.merge(s.Subscription)
	}
	s.Settings.AcademyLogo = rec.AcademyLogo
	if rec.PremiumStaffPrice != nil {
		s.Settings.PremiumStaffPrice = *rec.PremiumStaffPrice
	}
	if rec.AdminPixKey != nil {
		s.Settings.AdminPixKey = *rec.AdminPixKey
	}
	if rec.AdminPhone != nil {
		s.Settings.AdminPhone = *rec.AdminPhone
	}
	return s, nil
}
