package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubMatrixService struct {
	matrix  Matrix
	grants  [][2]int64
	revokes [][2]int64
	err     error
}

func (s *stubMatrixService) ListMatrix(ctx context.Context) (Matrix, error) {
	return s.matrix, s.err
}

func (s *stubMatrixService) Grant(ctx context.Context, roleID, functionalityID int64) error {
	s.grants = append(s.grants, [2]int64{roleID, functionalityID})
	return s.err
}

func (s *stubMatrixService) Revoke(ctx context.Context, roleID, functionalityID int64) error {
	s.revokes = append(s.revokes, [2]int64{roleID, functionalityID})
	return s.err
}

func newMatrixRouter(svc matrixService) http.Handler {
	h := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestGetMatrix(t *testing.T) {
	svc := &stubMatrixService{matrix: Matrix{
		Roles:           []Role{{ID: 1, Name: "manager"}},
		Functionalities: []Functionality{{ID: 2, Key: FeatureDashboard}},
		AssignmentSet:   []string{"1-2"},
	}}
	router := newMatrixRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matrix", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"1-2"`)
	require.Contains(t, rec.Body.String(), FeatureDashboard)
}

func TestAssignValidRequest(t *testing.T) {
	svc := &stubMatrixService{}
	router := newMatrixRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assign", strings.NewReader(`{"role_id":3,"functionality_id":9}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, [][2]int64{{3, 9}}, svc.grants)
}

func TestAssignRejectsMissingFields(t *testing.T) {
	svc := &stubMatrixService{}
	router := newMatrixRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assign", strings.NewReader(`{"role_id":3}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, svc.grants)
}

func TestUnassign(t *testing.T) {
	svc := &stubMatrixService{}
	router := newMatrixRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/assign", strings.NewReader(`{"role_id":3,"functionality_id":9}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, [][2]int64{{3, 9}}, svc.revokes)
}
