package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/auth"
	"github.com/lendingdesk/backend/internal/infrastructure/logger"
	"github.com/lendingdesk/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// UserIDHeader identifies the caller when token verification is off
	UserIDHeader = "X-User-ID"
	// RequesterKey is where the resolved shared.Requester is kept on the gin context
	RequesterKey = "requester"
)

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequesterConfig configures how the caller is identified
type RequesterConfig struct {
	// Verifier is used when set; the X-User-ID header is trusted otherwise.
	Verifier TokenVerifier
	Logger   *zap.Logger
	// SkipPaths are served without identifying the caller
	SkipPaths []string
}

// Requester resolves who is calling and stores it on the gin context.
// Requests without a usable identity are rejected with 401.
func Requester(cfg RequesterConfig) gin.HandlerFunc {
	base := cfg.Logger
	if base == nil {
		base = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		var (
			userID uuid.UUID
			code   string
			msg    string
		)
		if cfg.Verifier != nil {
			userID, code, msg = fromBearer(c, cfg.Verifier)
		} else {
			userID, code, msg = fromHeader(c)
		}
		if code != "" {
			logger.For(c.Request.Context(), base).Debug("Request rejected: no requester",
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", msg),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, msg, c.GetString(RequestIDKey)))
			return
		}

		requester := shared.Requester{UserID: userID, IP: c.ClientIP()}
		c.Set(RequesterKey, requester)

		ctx, reqLogger := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID.String())
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, reqLogger)
		c.Next()
	}
}

func fromBearer(c *gin.Context, verifier TokenVerifier) (uuid.UUID, string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, shared.CodeUnauthorized, "Authorization header is required"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return uuid.Nil, shared.CodeUnauthorized, "Authorization header must be a bearer token"
	}

	claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return uuid.Nil, dto.ErrCodeTokenExpired, "Token has expired"
		}
		return uuid.Nil, dto.ErrCodeInvalidToken, "Invalid token"
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, dto.ErrCodeInvalidToken, "Invalid token"
	}
	return userID, "", ""
}

func fromHeader(c *gin.Context) (uuid.UUID, string, string) {
	raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if raw == "" {
		return uuid.Nil, shared.CodeUnauthorized, UserIDHeader + " header is required"
	}
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, shared.CodeUnauthorized, UserIDHeader + " header must be a UUID"
	}
	return userID, "", ""
}

// GetRequester returns the requester resolved for this request
func GetRequester(c *gin.Context) (shared.Requester, bool) {
	v, ok := c.Get(RequesterKey)
	if !ok {
		return shared.Requester{}, false
	}
	r, ok := v.(shared.Requester)
	return r, ok
}
