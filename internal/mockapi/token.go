package mockapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token exchanges a refresh token grant for an access token. Refresh tokens
// must carry the Atzr| prefix of real Login with Amazon tokens.
func (s *Server) Token(c echo.Context) error {
	s.tokenCalls.Add(1)

	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, oauthError{
			Error:            "invalid_request",
			ErrorDescription: "The request body is not a valid grant",
		})
	}

	switch {
	case req.GrantType != "refresh_token":
		return c.JSON(http.StatusBadRequest, oauthError{
			Error:            "unsupported_grant_type",
			ErrorDescription: "Only the refresh_token grant is supported",
		})
	case req.ClientID == "" || req.ClientSecret == "":
		return c.JSON(http.StatusUnauthorized, oauthError{
			Error:            "invalid_client",
			ErrorDescription: "Client authentication failed",
		})
	case !strings.HasPrefix(req.RefreshToken, "Atzr|"):
		return c.JSON(http.StatusBadRequest, oauthError{
			Error:            "invalid_grant",
			ErrorDescription: "The request has an invalid grant parameter : refresh_token",
		})
	}

	tok := "Atza|mock-" + uuid.NewString()

	s.mu.Lock()
	s.tokens[tok] = s.nowFunc().Add(s.lifetime)
	s.mu.Unlock()

	s.log.Info("issued access token", "client_id", req.ClientID)

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  tok,
		RefreshToken: req.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.lifetime.Seconds()),
	})
}
