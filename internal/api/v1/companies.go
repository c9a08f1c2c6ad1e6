package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/server/middleware"
)

type RegisterCompanyInput struct {
	Body struct {
		CompanyID    uint64 `json:"company_id" doc:"Caller-chosen numeric company ID"`
		Name         string `json:"name" minLength:"1" maxLength:"32" doc:"Company display name"`
		EmployeeRoot string `json:"employee_root" minLength:"64" maxLength:"64" doc:"Keccak-256 employee membership root, hex"`
	}
}

type RegisterCompanyOutput struct {
	Body *domain.Company
}

type ListCompaniesInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListCompaniesOutput struct {
	Body []*domain.Company
}

type GetCompanyInput struct {
	Key string `path:"key" doc:"Company key, hex"`
}

type GetCompanyOutput struct {
	Body *domain.Company
}

type RotateRootInput struct {
	Key  string `path:"key" doc:"Company key, hex"`
	Body struct {
		EmployeeRoot string `json:"employee_root" minLength:"64" maxLength:"64" doc:"New membership root, hex"`
	}
}

type RotateRootOutput struct {
	Body *domain.Company
}

type TogglePauseInput struct {
	Key string `path:"key" doc:"Company key, hex"`
}

type TogglePauseOutput struct {
	Body *domain.Company
}

func RegisterCompanyRoutes(api huma.API, companies CompanyService) {
	huma.Register(api, huma.Operation{
		OperationID: "register-company",
		Method:      http.MethodPost,
		Path:        "/companies",
		Summary:     "Register a company",
		Tags:        []string{"Companies"},
	}, func(ctx context.Context, input *RegisterCompanyInput) (*RegisterCompanyOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		root, err := domain.ParseDigest(input.Body.EmployeeRoot)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid employee_root encoding")
		}

		c, err := companies.Register(ctx, caller, input.Body.CompanyID, input.Body.Name, root)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &RegisterCompanyOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-companies",
		Method:      http.MethodGet,
		Path:        "/companies",
		Summary:     "List registered companies",
		Tags:        []string{"Companies"},
	}, func(ctx context.Context, input *ListCompaniesInput) (*ListCompaniesOutput, error) {
		out, err := companies.List(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &ListCompaniesOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-company",
		Method:      http.MethodGet,
		Path:        "/companies/{key}",
		Summary:     "Get a company by key",
		Tags:        []string{"Companies"},
	}, func(ctx context.Context, input *GetCompanyInput) (*GetCompanyOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		c, err := companies.Get(ctx, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &GetCompanyOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rotate-employee-root",
		Method:      http.MethodPost,
		Path:        "/companies/{key}/root",
		Summary:     "Rotate the employee membership root",
		Tags:        []string{"Companies"},
	}, func(ctx context.Context, input *RotateRootInput) (*RotateRootOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		root, err := domain.ParseDigest(input.Body.EmployeeRoot)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid employee_root encoding")
		}

		c, err := companies.RotateRoot(ctx, caller, key, root)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &RotateRootOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-company-pause",
		Method:      http.MethodPost,
		Path:        "/companies/{key}/pause",
		Summary:     "Toggle the company pause flag",
		Tags:        []string{"Companies"},
	}, func(ctx context.Context, input *TogglePauseInput) (*TogglePauseOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		c, err := companies.TogglePause(ctx, caller, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &TogglePauseOutput{Body: c}, nil
	})
}
