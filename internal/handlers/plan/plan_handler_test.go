package plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"directory-service/internal/domain/plan"
	planservice "directory-service/internal/service/plan"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(plansFile string) *gin.Engine {
	svc := planservice.NewPlanService(plan.NewRegistry(nil), planservice.PolicyStrict, "", plansFile, nil, zap.NewNop())
	h := NewPlanHandler(svc)
	r := gin.New()
	r.GET("/plans", h.ListPlans)
	r.GET("/plans/:key", h.GetPlan)
	r.POST("/admin/plans/reload", h.ReloadPlans)
	return r
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestListPlansInDisplayOrder(t *testing.T) {
	w := get(newRouter(""), http.MethodGet, "/plans")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data []plan.Plan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, plan.Free, env.Data[0].Key)
	assert.Equal(t, plan.Premium, env.Data[2].Key)
}

func TestGetPlan(t *testing.T) {
	r := newRouter("")
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/plans/Basic").Code)
	assert.Equal(t, http.StatusNotFound, get(r, http.MethodGet, "/plans/gold").Code)
}

func TestReloadPlans(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(newRouter(""), http.MethodPost, "/admin/plans/reload").Code)

	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plans:
  - {key: free, name: Gratis, price: 0}
  - {key: basic, name: Básico, price: 180, features: {products_limit: 8}}
  - {key: premium, name: Premium, price: 350, features: {products_limit: 100, featured: true}}
`), 0o600))

	w := get(newRouter(path), http.MethodPost, "/admin/plans/reload")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":180`)

	require.NoError(t, os.WriteFile(path, []byte(`plans: [{key: gold}]`), 0o600))
	assert.Equal(t, http.StatusBadRequest, get(newRouter(path), http.MethodPost, "/admin/plans/reload").Code)
}
