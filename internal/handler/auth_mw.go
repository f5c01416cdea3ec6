package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	user, err := h.getUserDataFromAccessToken(c.Request.Context(), accessToken)
	if err != nil {
		if errors.Is(err, service.ErrBackendUnavailable) {
			h.respondError(c, err)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	c.Set("user", *user)

	c.Next()
}

func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	user, err := h.getUserDataFromAccessToken(c.Request.Context(), accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set("user", *user)

	c.Next()
}

// getUserDataFromAccessToken verifies the token and refreshes the cached
// profile when the claims differ from it.
func (h *Handler) getUserDataFromAccessToken(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, err
	}

	user, err := userFromClaims(claims)
	if err != nil {
		return nil, err
	}

	cached, err := h.services.UserCache.FindByID(ctx, user.ID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return nil, err
	}
	if cached != nil && *cached == *user {
		return cached, nil
	}

	if err := h.services.UserCache.CreateOrUpdate(ctx, *user); err != nil {
		return nil, err
	}

	return user, nil
}

func userFromClaims(claims jwt.MapClaims) (*model.CachedUser, error) {
	idString, _ := claims["id"].(string)
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, errInvalidClaims
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return nil, errInvalidClaims
	}
	displayName, _ := claims["display_name"].(string)

	return &model.CachedUser{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
	}, nil
}
