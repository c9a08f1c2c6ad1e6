package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/truthprism/prism/internal/api/v1"
	"github.com/truthprism/prism/internal/domain"
)

var testRootHex = strings.Repeat("ab", 32)

// ---------------------------------------------------------------------------
// POST /companies
// ---------------------------------------------------------------------------

func TestRegisterCompany(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		authority := testIdentity(1)
		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			registerFunc: func(_ context.Context, auth domain.Identity, companyID uint64, name string, root domain.Digest) (*domain.Company, error) {
				assert.Equal(t, authority, auth)
				assert.Equal(t, uint64(7), companyID)
				return &domain.Company{
					Key:         domain.CompanyKey(companyID),
					Authority:   auth,
					CompanyID:   companyID,
					Name:        name,
					RootDigest:  root,
					RootVersion: 1,
					CreatedAt:   time.Now().Truncate(time.Second),
				}, nil
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(authority), "/companies", map[string]any{
			"company_id":    7,
			"name":          "acme",
			"employee_root": testRootHex,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Company
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, "acme", body.Name)
		assert.Equal(t, uint64(7), body.CompanyID)
		assert.Equal(t, uint64(1), body.RootVersion)
	})

	t.Run("missing_identity", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCompanyRoutes(api, &mockCompanySvc{})

		resp := api.PostCtx(context.Background(), "/companies", map[string]any{
			"company_id":    7,
			"name":          "acme",
			"employee_root": testRootHex,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("bad_root_encoding", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCompanyRoutes(api, &mockCompanySvc{})

		resp := api.PostCtx(identityCtx(testIdentity(1)), "/companies", map[string]any{
			"company_id":    7,
			"name":          "acme",
			"employee_root": strings.Repeat("zz", 32),
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("duplicate_company", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			registerFunc: func(_ context.Context, _ domain.Identity, _ uint64, _ string, _ domain.Digest) (*domain.Company, error) {
				return nil, domain.ErrConflict
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(testIdentity(1)), "/companies", map[string]any{
			"company_id":    7,
			"name":          "acme",
			"employee_root": testRootHex,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("insufficient_fee_funds", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			registerFunc: func(_ context.Context, _ domain.Identity, _ uint64, _ string, _ domain.Digest) (*domain.Company, error) {
				return nil, domain.ErrPayment
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(testIdentity(1)), "/companies", map[string]any{
			"company_id":    7,
			"name":          "acme",
			"employee_root": testRootHex,
		})

		assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /companies/{key}
// ---------------------------------------------------------------------------

func TestGetCompany(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		key := domain.CompanyKey(7)
		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			getFunc: func(_ context.Context, k domain.Key) (*domain.Company, error) {
				assert.Equal(t, key, k)
				return &domain.Company{Key: k, CompanyID: 7, Name: "acme"}, nil
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.Get("/companies/" + key.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Company
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, "acme", body.Name)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			getFunc: func(_ context.Context, _ domain.Key) (*domain.Company, error) {
				return nil, domain.ErrNotFound
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.Get("/companies/" + domain.CompanyKey(9).String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("bad_key_encoding", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCompanyRoutes(api, &mockCompanySvc{})

		resp := api.Get("/companies/not-hex")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /companies/{key}/root
// ---------------------------------------------------------------------------

func TestRotateRoot(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		authority := testIdentity(1)
		key := domain.CompanyKey(7)
		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			rotateRootFunc: func(_ context.Context, caller domain.Identity, k domain.Key, root domain.Digest) (*domain.Company, error) {
				assert.Equal(t, authority, caller)
				assert.Equal(t, key, k)
				return &domain.Company{Key: k, RootDigest: root, RootVersion: 2}, nil
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(authority), "/companies/"+key.String()+"/root", map[string]any{
			"employee_root": testRootHex,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Company
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), body.RootVersion)
	})

	t.Run("not_authority", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			rotateRootFunc: func(_ context.Context, _ domain.Identity, _ domain.Key, _ domain.Digest) (*domain.Company, error) {
				return nil, domain.ErrUnauthorized
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(testIdentity(2)), "/companies/"+domain.CompanyKey(7).String()+"/root", map[string]any{
			"employee_root": testRootHex,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /companies/{key}/pause
// ---------------------------------------------------------------------------

func TestTogglePause(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		authority := testIdentity(1)
		key := domain.CompanyKey(7)
		_, api := humatest.New(t)
		svc := &mockCompanySvc{
			togglePauseFunc: func(_ context.Context, caller domain.Identity, k domain.Key) (*domain.Company, error) {
				assert.Equal(t, authority, caller)
				return &domain.Company{Key: k, Paused: true}, nil
			},
		}
		v1.RegisterCompanyRoutes(api, svc)

		resp := api.PostCtx(identityCtx(authority), "/companies/"+key.String()+"/pause")

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Company
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.True(t, body.Paused)
	})

	t.Run("missing_identity", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterCompanyRoutes(api, &mockCompanySvc{})

		resp := api.PostCtx(context.Background(), "/companies/"+domain.CompanyKey(7).String()+"/pause")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
