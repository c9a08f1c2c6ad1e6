package v1

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/domain"
)

type TokenInput struct {
	Body struct {
		Identity  string `json:"identity" minLength:"64" maxLength:"64" doc:"Caller's ed25519 public key, hex"`
		Timestamp int64  `json:"timestamp" doc:"Unix timestamp the challenge was signed at"`
		Signature string `json:"signature" minLength:"1" doc:"Base64 ed25519 signature over the challenge"`
	}
}

type TokenOutput struct {
	Body struct {
		AccessToken string `json:"access_token" doc:"Bearer token for the v1 API"`
	}
}

func RegisterAuthRoutes(api huma.API, authSvc Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "issue-token",
		Method:      http.MethodPost,
		Path:        "/auth/token",
		Summary:     "Exchange a signed challenge for an access token",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, input *TokenInput) (*TokenOutput, error) {
		identity, err := domain.ParseIdentity(input.Body.Identity)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid identity encoding")
		}

		sig, err := base64.StdEncoding.DecodeString(input.Body.Signature)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid signature encoding")
		}

		token, err := authSvc.Authenticate(identity, input.Body.Timestamp, sig)
		if err != nil {
			return nil, huma.Error401Unauthorized("authentication failed")
		}

		out := &TokenOutput{}
		out.Body.AccessToken = token
		return out, nil
	})
}
