package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// agentHandler handles HTTP requests related to agents.
type agentHandler struct {
	agentService portssvc.AgentSvcFacade
}

// newAgentHandler creates a new agentHandler.
func newAgentHandler(as portssvc.AgentSvcFacade) *agentHandler {
	return &agentHandler{
		agentService: as,
	}
}

// registerAgentRoutes registers routes related to agents.
func registerAgentRoutes(rg *gin.RouterGroup, agentService portssvc.AgentSvcFacade) {
	h := newAgentHandler(agentService)

	agents := rg.Group("/agents")
	{
		agents.POST("", h.createAgent)
		agents.GET("", h.listAgents)
		agents.GET("/:agent_id", h.getAgent)
		agents.PUT("/:agent_id", h.updateAgent)
		agents.POST("/:agent_id/deactivate", h.deactivateAgent)
	}
}

// createAgent godoc
// @Summary Register a new agent
// @Description Registers a task-force member with a unique badge number. Admin only.
// @Tags agents
// @Accept json
// @Produce json
// @Param agent body dto.CreateAgentRequest true "Agent details"
// @Success 201 {object} dto.AgentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Badge number already registered"
// @Security BearerAuth
// @Router /agents [post]
func (h *agentHandler) createAgent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAgent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create agent")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAgentResponse(agent))
}

// listAgents godoc
// @Summary List agents
// @Description Retrieves the agent roster. Admin only.
// @Tags agents
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.AgentResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *agentHandler) listAgents(c *gin.Context) {
	var params dto.ListAgentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	agents, err := h.agentService.ListAgents(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list agents")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAgentResponse(agents))
}

// getAgent godoc
// @Summary Get an agent
// @Tags agents
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /agents/{agent_id} [get]
func (h *agentHandler) getAgent(c *gin.Context) {
	agent, err := h.agentService.GetAgentByID(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		respondWithError(c, err, "Failed to get agent")
		return
	}
	c.JSON(http.StatusOK, dto.ToAgentResponse(agent))
}

// updateAgent godoc
// @Summary Update an agent's profile
// @Description Updates profile fields. Admins can update anyone including the active flag; agents only their own contact details.
// @Tags agents
// @Accept json
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Param updates body dto.UpdateAgentRequest true "Fields to update"
// @Success 200 {object} dto.AgentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /agents/{agent_id} [put]
func (h *agentHandler) updateAgent(c *gin.Context) {
	var req dto.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), c.Param("agent_id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to update agent")
		return
	}
	c.JSON(http.StatusOK, dto.ToAgentResponse(agent))
}

// deactivateAgent godoc
// @Summary Deactivate an agent
// @Description Marks an agent inactive so they can no longer log in or file records. Admin only.
// @Tags agents
// @Param agent_id path string true "Agent ID"
// @Success 204 "Deactivated"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /agents/{agent_id}/deactivate [post]
func (h *agentHandler) deactivateAgent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.agentService.DeactivateAgent(c.Request.Context(), c.Param("agent_id"), actor); err != nil {
		respondWithError(c, err, "Failed to deactivate agent")
		return
	}
	c.Status(http.StatusNoContent)
}
