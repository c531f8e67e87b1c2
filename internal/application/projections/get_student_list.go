package projections

import (
	"context"
	"sort"
	"strings"

	"dojohub/internal/application/listutil"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/student"
)

// StudentListSpec lists the sort columns and filters the roster accepts.
var StudentListSpec = listutil.Spec{
	SortColumns: []string{"name", "belt", "enrolledAt", "monthlyFee"},
	DefaultSort: "name",
	FilterKeys:  []string{"belt", "status"},
}

// GetStudentListQuery carries list parameters.
type GetStudentListQuery struct {
	Params listutil.Params
}

// GetStudentListDeps holds dependencies for GetStudentList.
type GetStudentListDeps struct {
	Source SnapshotSource
}

// StudentRow is one student with their payment standing.
type StudentRow struct {
	student.Student
	PendingPayments int `json:"pendingPayments"`
}

// GetStudentListResult carries one page of students.
type GetStudentListResult struct {
	Students []StudentRow      `json:"students"`
	Page     listutil.PageInfo `json:"page"`
}

// QueryGetStudentList searches, filters, sorts and paginates the roster.
// PRE: Params parsed through listutil
// POST: Returns at most Params.PerPage rows
func QueryGetStudentList(_ context.Context, query GetStudentListQuery, deps GetStudentListDeps) (GetStudentListResult, error) {
	s := deps.Source.Snapshot()
	p := query.Params

	pending := make(map[string]int)
	for _, pay := range s.Payments {
		if pay.PayerKind != payment.PayerInstructor && !pay.IsPaid() {
			pending[pay.PayerID]++
		}
	}

	search := strings.ToLower(p.Search)
	var rows []StudentRow
	for _, st := range s.Students {
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) && !strings.Contains(strings.ToLower(st.Email), search) {
			continue
		}
		if belt, ok := p.Filters["belt"]; ok && !strings.EqualFold(st.Belt, belt) {
			continue
		}
		if status, ok := p.Filters["status"]; ok && (status == student.StatusActive) != st.IsActive() {
			continue
		}
		rows = append(rows, StudentRow{Student: st, PendingPayments: pending[st.ID]})
	}

	sortStudentRows(rows, p.Sort, p.Desc())

	page, info := listutil.Paginate(rows, p)
	if page == nil {
		page = []StudentRow{}
	}
	return GetStudentListResult{Students: page, Page: info}, nil
}

func sortStudentRows(rows []StudentRow, col string, desc bool) {
	less := func(a, b StudentRow) bool {
		switch col {
		case "belt":
			return beltRank(a.Belt) < beltRank(b.Belt)
		case "enrolledAt":
			if a.EnrolledAt == nil || b.EnrolledAt == nil {
				return a.EnrolledAt == nil && b.EnrolledAt != nil
			}
			return a.EnrolledAt.Before(*b.EnrolledAt)
		case "monthlyFee":
			return a.MonthlyFee < b.MonthlyFee
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		return false
	}
	if col == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func beltRank(belt string) int {
	for i, b := range student.Belts {
		if b == belt {
			return i
		}
	}
	return -1
}
