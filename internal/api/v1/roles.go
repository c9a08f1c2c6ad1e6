package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/server/middleware"
)

type GrantRoleInput struct {
	Key  string `path:"key" doc:"Company key, hex"`
	Body struct {
		Subject string `json:"subject" minLength:"64" maxLength:"64" doc:"Recipient identity, hex"`
	}
}

type GrantRoleOutput struct {
	Body *domain.AdminRole
}

type RevokeRoleInput struct {
	Key     string `path:"key" doc:"Company key, hex"`
	Subject string `path:"subject" doc:"Subject identity, hex"`
}

type RevokeRoleOutput struct {
	Body *domain.AdminRole
}

type ListRolesInput struct {
	Key    string `path:"key" doc:"Company key, hex"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListRolesOutput struct {
	Body []*domain.AdminRole
}

func RegisterRoleRoutes(api huma.API, roleSvc RoleService) {
	huma.Register(api, huma.Operation{
		OperationID: "grant-admin-role",
		Method:      http.MethodPost,
		Path:        "/companies/{key}/roles",
		Summary:     "Grant an admin role",
		Tags:        []string{"Roles"},
	}, func(ctx context.Context, input *GrantRoleInput) (*GrantRoleOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		subject, err := domain.ParseIdentity(input.Body.Subject)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid subject encoding")
		}

		role, err := roleSvc.Grant(ctx, caller, key, subject)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &GrantRoleOutput{Body: role}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "revoke-admin-role",
		Method:      http.MethodDelete,
		Path:        "/companies/{key}/roles/{subject}",
		Summary:     "Revoke an admin role",
		Tags:        []string{"Roles"},
	}, func(ctx context.Context, input *RevokeRoleInput) (*RevokeRoleOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		subject, err := domain.ParseIdentity(input.Subject)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid subject encoding")
		}

		role, err := roleSvc.Revoke(ctx, caller, key, subject)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &RevokeRoleOutput{Body: role}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-admin-roles",
		Method:      http.MethodGet,
		Path:        "/companies/{key}/roles",
		Summary:     "List a company's role grant history",
		Tags:        []string{"Roles"},
	}, func(ctx context.Context, input *ListRolesInput) (*ListRolesOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		out, err := roleSvc.ListByCompany(ctx, key, input.Limit, input.Offset)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &ListRolesOutput{Body: out}, nil
	})
}
