package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojohub/internal/application/console"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/task"
)

// ConsoleForSeed defines the console interface needed by SeedDemo.
type ConsoleForSeed interface {
	Student(id string) (student.Student, error)
	Instructor(id string) (instructor.Instructor, error)
	Products() []product.Product
	Tasks() []task.AdminTask
	Payments() []payment.Payment
	AddStudent(ctx context.Context, s student.Student) error
	AddInstructor(ctx context.Context, in instructor.Instructor) error
	AddPayment(ctx context.Context, p payment.Payment) error
	AddProduct(ctx context.Context, p product.Product) error
	AddTask(ctx context.Context, t task.AdminTask) error
}

// SeedDemoDeps holds dependencies for demo seeding.
type SeedDemoDeps struct {
	Console ConsoleForSeed
	Now     func() time.Time
}

// ExecuteSeedDemo fills an academy with a small demo roster, catalog and ledger.
// It is idempotent: records whose id already exists are skipped.
// PRE: Console is hydrated
// POST: demo instructors, students, products, tasks and payments exist
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) (int, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	at := now()
	created := 0

	for _, in := range demoInstructors(at) {
		if _, err := deps.Console.Instructor(in.ID); err == nil {
			continue
		}
		if err := deps.Console.AddInstructor(ctx, in); err != nil && !errors.Is(err, console.ErrPersist) {
			return created, fmt.Errorf("seed instructor %s: %w", in.ID, err)
		}
		created++
	}
	for _, s := range demoStudents(at) {
		if _, err := deps.Console.Student(s.ID); err == nil {
			continue
		}
		if err := deps.Console.AddStudent(ctx, s); err != nil && !errors.Is(err, console.ErrPersist) {
			return created, fmt.Errorf("seed student %s: %w", s.ID, err)
		}
		created++
	}

	have := make(map[string]bool)
	for _, p := range deps.Console.Products() {
		have[p.ID] = true
	}
	for _, t := range deps.Console.Tasks() {
		have[t.ID] = true
	}
	for _, p := range deps.Console.Payments() {
		have[p.ID] = true
	}

	for _, p := range demoProducts() {
		if have[p.ID] {
			continue
		}
		if err := deps.Console.AddProduct(ctx, p); err != nil && !errors.Is(err, console.ErrPersist) {
			return created, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
		created++
	}
	for _, t := range demoTasks(at) {
		if have[t.ID] {
			continue
		}
		if err := deps.Console.AddTask(ctx, t); err != nil && !errors.Is(err, console.ErrPersist) {
			return created, fmt.Errorf("seed task %s: %w", t.ID, err)
		}
		created++
	}
	for _, p := range demoPayments(at) {
		if have[p.ID] {
			continue
		}
		if err := deps.Console.AddPayment(ctx, p); err != nil && !errors.Is(err, console.ErrPersist) {
			return created, fmt.Errorf("seed payment %s: %w", p.ID, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("seed_event", "event", "demo_seeded", "created", created)
	}
	return created, nil
}

func demoInstructors(at time.Time) []instructor.Instructor {
	return []instructor.Instructor{
		{ID: "demo-i1", Name: "Rafael Mendes", Email: "rafael@demo.dojo", Role: instructor.RoleProfessor, Belt: student.BeltBlack, Compensation: 2500, Premium: true, JoinedAt: &at},
		{ID: "demo-i2", Name: "Julia Costa", Email: "julia@demo.dojo", Role: instructor.RoleMonitor, Belt: student.BeltBrown, Compensation: 800, JoinedAt: &at},
	}
}

func demoStudents(at time.Time) []student.Student {
	return []student.Student{
		{ID: "demo-s1", Name: "Ana Lima", Email: "ana@demo.dojo", Belt: student.BeltBlue, Stripes: 2, Status: student.StatusActive, EnrolledAt: &at, MonthlyFee: 180},
		{ID: "demo-s2", Name: "Bruno Alves", Email: "bruno@demo.dojo", Belt: student.BeltWhite, Stripes: 3, Status: student.StatusActive, EnrolledAt: &at, MonthlyFee: 180},
		{ID: "demo-s3", Name: "Carol Dias", Email: "carol@demo.dojo", Belt: student.BeltPurple, Status: student.StatusInactive, EnrolledAt: &at, MonthlyFee: 150},
	}
}

func demoProducts() []product.Product {
	return []product.Product{
		{ID: "demo-pr1", Name: "Kimono Trançado A2", Price: 489.90, Stock: 6, Category: product.CategoryKimono},
		{ID: "demo-pr2", Name: "Rashguard Manga Longa", Price: 159.90, Stock: 10, Category: product.CategoryRashguard},
		{ID: "demo-pr3", Name: "Faixa Azul", Price: 59.90, Stock: 0, Category: product.CategoryBelt},
	}
}

func demoTasks(at time.Time) []task.AdminTask {
	due := at.AddDate(0, 0, 7)
	return []task.AdminTask{
		{ID: "demo-t1", Title: "Higienizar tatames", Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: &due, CreatedAt: at},
		{ID: "demo-t2", Title: "Organizar graduação de fim de ano", Priority: task.PriorityMedium, Status: task.StatusDoing, CreatedAt: at},
	}
}

func demoPayments(at time.Time) []payment.Payment {
	return []payment.Payment{
		{ID: "demo-p1", PayerID: "demo-s1", PayerKind: payment.PayerStudent, Amount: 180, Status: payment.StatusPaid, Method: payment.MethodPix, Timestamp: at, Description: "Mensalidade"},
		{ID: "demo-p2", PayerID: "demo-s2", PayerKind: payment.PayerStudent, Amount: 180, Status: payment.StatusPending, Timestamp: at, Description: "Mensalidade"},
		{ID: "demo-p3", PayerID: "demo-i1", PayerKind: payment.PayerInstructor, Amount: 30, Status: payment.StatusOverdue, Timestamp: at, Description: "Plano premium"},
	}
}
