package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/server/middleware"
)

type CreateMarketInput struct {
	Key  string `path:"key" doc:"Company key, hex"`
	Body struct {
		MarketID       uint64    `json:"market_id" doc:"Caller-chosen numeric market ID, unique per company"`
		Title          string    `json:"title" minLength:"1" maxLength:"64" doc:"Market title"`
		Description    string    `json:"description,omitempty" maxLength:"128" doc:"Market description"`
		ResolutionTime time.Time `json:"resolution_time" doc:"When betting closes and resolution becomes possible"`
		NumOutcomes    uint8     `json:"num_outcomes" minimum:"2" doc:"Number of outcomes"`
	}
}

type CreateMarketOutput struct {
	Body *domain.Market
}

type ListMarketsInput struct {
	Key    string `path:"key" doc:"Company key, hex"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListMarketsOutput struct {
	Body []*domain.Market
}

type GetMarketInput struct {
	Key string `path:"key" doc:"Market key, hex"`
}

type GetMarketOutput struct {
	Body *domain.Market
}

type ResolveMarketInput struct {
	Key  string `path:"key" doc:"Market key, hex"`
	Body struct {
		WinningOutcome uint8 `json:"winning_outcome" doc:"Index of the winning outcome"`
	}
}

type ResolveMarketOutput struct {
	Body *domain.Market
}

func RegisterMarketRoutes(api huma.API, markets MarketService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-market",
		Method:      http.MethodPost,
		Path:        "/companies/{key}/markets",
		Summary:     "Create a prediction market",
		Tags:        []string{"Markets"},
	}, func(ctx context.Context, input *CreateMarketInput) (*CreateMarketOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		m, err := markets.Create(ctx, caller, key, input.Body.MarketID, input.Body.Title,
			input.Body.Description, input.Body.ResolutionTime, input.Body.NumOutcomes)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &CreateMarketOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-markets",
		Method:      http.MethodGet,
		Path:        "/companies/{key}/markets",
		Summary:     "List a company's markets",
		Tags:        []string{"Markets"},
	}, func(ctx context.Context, input *ListMarketsInput) (*ListMarketsOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid company key encoding")
		}

		out, err := markets.ListByCompany(ctx, key, input.Limit, input.Offset)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &ListMarketsOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-market",
		Method:      http.MethodGet,
		Path:        "/markets/{key}",
		Summary:     "Get a market by key",
		Tags:        []string{"Markets"},
	}, func(ctx context.Context, input *GetMarketInput) (*GetMarketOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		m, err := markets.Get(ctx, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &GetMarketOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-market",
		Method:      http.MethodPost,
		Path:        "/markets/{key}/resolve",
		Summary:     "Resolve a market",
		Tags:        []string{"Markets"},
	}, func(ctx context.Context, input *ResolveMarketInput) (*ResolveMarketOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		m, err := markets.Resolve(ctx, caller, key, input.Body.WinningOutcome)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &ResolveMarketOutput{Body: m}, nil
	})
}
