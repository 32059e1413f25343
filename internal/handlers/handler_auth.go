package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
	"github.com/taskforce-tools/op_funds_app/internal/utils"
	"github.com/taskforce-tools/op_funds_app/pkg/config"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	agentService portssvc.AgentSvcFacade
	jwtSecret    string
	jwtDuration  time.Duration
	jwtIssuer    string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AgentSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		agentService: as,
		jwtSecret:    cfg.JWTSecret,
		jwtDuration:  cfg.JWTExpiryDuration,
		jwtIssuer:    cfg.JWTIssuer,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, agentService portssvc.AgentSvcFacade) {
	h := NewAuthHandler(agentService, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
	}

	authed := rg.Group("/api/v1/auth", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/me", h.Me)
	}
}

// Login godoc
// @Summary Agent login
// @Description Authenticates an agent by badge number and password and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	agent, err := h.agentService.AuthenticateAgent(c.Request.Context(), req.BadgeNumber, req.Password)
	if err != nil {
		respondWithError(c, err, "Failed to authenticate agent")
		return
	}

	token, err := utils.GenerateJWT(agent.AgentID, h.jwtSecret, h.jwtIssuer, h.jwtDuration)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtDuration),
		Agent:     dto.ToAgentResponse(agent),
	})
}

// Me godoc
// @Summary Current agent
// @Description Returns the profile of the authenticated agent.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AgentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		return
	}

	agent, err := h.agentService.GetAgentByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "Failed to load agent profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentResponse(agent))
}
