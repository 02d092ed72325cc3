package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/nagasawakenji/walkfind/internal/config"
	"github.com/nagasawakenji/walkfind/internal/database"
	"github.com/nagasawakenji/walkfind/internal/database/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// CognitoHandler exchanges an authorization code against the Cognito hosted
// UI and turns the verified ID token into a local user plus session JWT.
type CognitoHandler struct {
	cfg      *config.Config
	db       *gorm.DB
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type cognitoClaims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Username string `json:"cognito:username"`
}

func NewCognitoHandler(cfg *config.Config, db *gorm.DB) (*CognitoHandler, error) {
	provider, err := oidc.NewProvider(context.Background(), cfg.Auth.Cognito.IssuerURL)
	if err != nil {
		return nil, err
	}

	return &CognitoHandler{
		cfg: cfg,
		db:  db,
		oauth2: &oauth2.Config{
			ClientID:     cfg.Auth.Cognito.ClientID,
			ClientSecret: cfg.Auth.Cognito.ClientSecret,
			RedirectURL:  cfg.Auth.Cognito.RedirectURI,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.Auth.Cognito.ClientID}),
	}, nil
}

func (h *CognitoHandler) Login(c *gin.Context) {
	url := h.oauth2.AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *CognitoHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	token, err := h.oauth2.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token: " + err.Error()})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No id_token in token response"})
		return
	}

	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify ID token: " + err.Error()})
		return
	}

	var claims cognitoClaims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse ID token claims: " + err.Error()})
		return
	}

	user, err := database.GetUserByCognitoSub(h.db, claims.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub := claims.Sub
		newUser := models.User{
			ID:         uuid.NewString(),
			CognitoSub: &sub,
			Username:   claims.Username,
			Email:      claims.Email,
		}
		if err := database.CreateUser(h.db, &newUser); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user: " + err.Error()})
			return
		}
		user = &newUser
		zap.S().Infof("new user registered via cognito: %s", user.Username)
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	jwtToken, err := GenerateJWT(user.ID, h.cfg.Auth.JWT.Secret, h.cfg.Auth.JWT.ExpireHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate JWT: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": jwtToken})
}
