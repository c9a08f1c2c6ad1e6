package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/betting"
	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/server/middleware"
)

type PlaceBetInput struct {
	Key  string `path:"key" doc:"Market key, hex"`
	Body struct {
		Amount       uint64   `json:"amount" minimum:"1" doc:"Wager amount in base units"`
		Outcome      uint8    `json:"outcome" doc:"Outcome index to back"`
		Proof        []string `json:"proof,omitempty" doc:"Employee membership proof, hex digests leaf-to-root"`
		ProofVersion uint64   `json:"proof_version,omitempty" doc:"Membership root version the proof was generated against"`
	}
}

type PlaceBetOutput struct {
	Body *domain.Bet
}

type GetBetInput struct {
	Key string `path:"key" doc:"Bet key, hex"`
}

type GetBetOutput struct {
	Body *domain.Bet
}

type ListBetsInput struct {
	Key    string `path:"key" doc:"Market key, hex"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListBetsOutput struct {
	Body []*domain.Bet
}

type MarketVolumeInput struct {
	Key string `path:"key" doc:"Market key, hex"`
}

type MarketVolumeOutput struct {
	Body struct {
		Volume uint64 `json:"volume" doc:"Sum of all bet amounts on the market"`
	}
}

type ClaimWinningsInput struct {
	Key string `path:"key" doc:"Market key, hex"`
}

type ClaimWinningsOutput struct {
	Body struct {
		Payout uint64 `json:"payout" doc:"Settled payout in base units"`
	}
}

func RegisterBetRoutes(api huma.API, bets BettingService, payouts PayoutService) {
	huma.Register(api, huma.Operation{
		OperationID: "place-bet",
		Method:      http.MethodPost,
		Path:        "/markets/{key}/bets",
		Summary:     "Place a bet on a market",
		Tags:        []string{"Bets"},
	}, func(ctx context.Context, input *PlaceBetInput) (*PlaceBetOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		var cred betting.Credential
		if input.Body.Proof != nil {
			proof := make([]domain.Digest, len(input.Body.Proof))
			for i, raw := range input.Body.Proof {
				proof[i], err = domain.ParseDigest(raw)
				if err != nil {
					return nil, huma.Error400BadRequest("invalid proof digest encoding")
				}
			}
			cred = betting.ProofCredential{Proof: proof, Version: input.Body.ProofVersion}
		}

		b, err := bets.Place(ctx, caller, key, input.Body.Amount, input.Body.Outcome, cred)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &PlaceBetOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-bet",
		Method:      http.MethodGet,
		Path:        "/bets/{key}",
		Summary:     "Get a bet by key",
		Tags:        []string{"Bets"},
	}, func(ctx context.Context, input *GetBetInput) (*GetBetOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid bet key encoding")
		}

		b, err := bets.Get(ctx, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &GetBetOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-bets",
		Method:      http.MethodGet,
		Path:        "/markets/{key}/bets",
		Summary:     "List a market's bets",
		Tags:        []string{"Bets"},
	}, func(ctx context.Context, input *ListBetsInput) (*ListBetsOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		out, err := bets.ListByMarket(ctx, key, input.Limit, input.Offset)
		if err != nil {
			return nil, mapDomainError(err)
		}

		return &ListBetsOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-market-volume",
		Method:      http.MethodGet,
		Path:        "/markets/{key}/volume",
		Summary:     "Get a market's total bet volume",
		Tags:        []string{"Bets"},
	}, func(ctx context.Context, input *MarketVolumeInput) (*MarketVolumeOutput, error) {
		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		total, err := bets.Volume(ctx, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		out := &MarketVolumeOutput{}
		out.Body.Volume = total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "claim-winnings",
		Method:      http.MethodPost,
		Path:        "/markets/{key}/claim",
		Summary:     "Claim winnings on a resolved market",
		Tags:        []string{"Bets"},
	}, func(ctx context.Context, input *ClaimWinningsInput) (*ClaimWinningsOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing caller identity")
		}

		key, err := domain.ParseKey(input.Key)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid market key encoding")
		}

		payout, err := payouts.Claim(ctx, caller, key)
		if err != nil {
			return nil, mapDomainError(err)
		}

		out := &ClaimWinningsOutput{}
		out.Body.Payout = payout
		return out, nil
	})
}
