package web

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/application/listutil"
	"dojohub/internal/application/orchestrators"
	"dojohub/internal/application/projections"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/student"
)

// handleStudentList handles GET /api/students?q=&belt=&status=&sort=&dir=&page=&perPage=
func handleStudentList(w http.ResponseWriter, r *http.Request) {
	params := listutil.Parse(r.URL.Query(), projections.StudentListSpec)
	result, err := projections.QueryGetStudentList(r.Context(), projections.GetStudentListQuery{Params: params},
		projections.GetStudentListDeps{Source: consoleOf(r)})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStudentGet handles GET /api/students/{id}
func handleStudentGet(w http.ResponseWriter, r *http.Request) {
	s, err := consoleOf(r).Student(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleStudentEnroll handles POST /api/students
func handleStudentEnroll(w http.ResponseWriter, r *http.Request) {
	var s student.Student
	if err := strictDecode(w, r, &s); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	created, err := orchestrators.ExecuteEnrollStudent(r.Context(), orchestrators.EnrollStudentInput{Student: s},
		orchestrators.EnrollStudentDeps{Console: consoleOf(r), GenerateID: generateID, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleStudentUpdate handles PATCH /api/students/{id}
func handleStudentUpdate(w http.ResponseWriter, r *http.Request) {
	var patch student.Patch
	if err := strictDecode(w, r, &patch); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	id := r.PathValue("id")
	if err := consoleOf(r).UpdateStudent(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	s, err := consoleOf(r).Student(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleStudentDelete handles DELETE /api/students/{id}. The student's payments go with them.
func handleStudentDelete(w http.ResponseWriter, r *http.Request) {
	if err := consoleOf(r).DeleteStudent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStudentImport handles POST /api/students/import?dryRun=true&update=true.
// The body is a CSV file, sent raw (text/csv) or as the "file" field of a multipart form.
func handleStudentImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "missing file field")
			return
		}
		defer file.Close()
		body = file
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dryRun"))
	update, _ := strconv.ParseBool(r.URL.Query().Get("update"))
	result, err := orchestrators.ExecuteImportStudents(r.Context(), orchestrators.ImportStudentsInput{
		Reader:     body,
		DryRun:     dryRun,
		UpdateMode: update,
	}, orchestrators.ImportStudentsDeps{Console: consoleOf(r), GenerateID: generateID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleInstructorList handles GET /api/instructors
func handleInstructorList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, consoleOf(r).Instructors())
}

// handleInstructorCreate handles POST /api/instructors
func handleInstructorCreate(w http.ResponseWriter, r *http.Request) {
	var in instructor.Instructor
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if in.ID == "" {
		in.ID = generateID()
	}
	if in.JoinedAt == nil {
		now := timeNow()
		in.JoinedAt = &now
	}
	if err := consoleOf(r).AddInstructor(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

// handleInstructorUpdate handles PATCH /api/instructors/{id}. The administrator
// may edit anyone; staff may only edit their own profile and never their
// role, compensation or premium flag.
func handleInstructorUpdate(w http.ResponseWriter, r *http.Request) {
	var patch instructor.Patch
	if err := strictDecode(w, r, &patch); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	id := r.PathValue("id")
	viewer, _ := middleware.GetIdentityFromContext(r.Context())
	if !viewer.IsAdmin() {
		if !viewer.IsStaff() || viewer.ProfileID != id {
			writeError(w, session.ErrForbidden)
			return
		}
		if patch.Role != nil || patch.Compensation != nil || patch.Premium != nil {
			writeError(w, session.ErrForbidden)
			return
		}
	}
	if err := consoleOf(r).UpdateInstructor(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	in, err := consoleOf(r).Instructor(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// handleInstructorDelete handles DELETE /api/instructors/{id}. Their payments go with them.
func handleInstructorDelete(w http.ResponseWriter, r *http.Request) {
	if err := consoleOf(r).DeleteInstructor(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
