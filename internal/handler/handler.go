package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/demirdoven/fluxa-analytics-service/docs"
	"github.com/demirdoven/fluxa-analytics-service/internal/dto"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity"
	"github.com/demirdoven/fluxa-analytics-service/internal/security"
	"github.com/demirdoven/fluxa-analytics-service/internal/service"
)

type Handler struct {
	ingest    service.IngestServicer
	analytics service.AnalyticsServicer
	resolver  *identity.Resolver
	tokens    *security.TokenIssuer
	router    *gin.Engine
	log       *zap.Logger
}

// NewHandler creates the API handler
func NewHandler(ingest service.IngestServicer, analytics service.AnalyticsServicer, resolver *identity.Resolver, tokens *security.TokenIssuer, log *zap.Logger) *Handler {
	h := &Handler{
		ingest:    ingest,
		analytics: analytics,
		resolver:  resolver,
		tokens:    tokens,
		router:    gin.Default(),
		log:       log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/identity", h.resolveIdentity)
	h.router.POST("/identity/register", h.registerIdentity)
	h.router.POST("/track", h.requireToken, h.trackEvent)
	h.router.POST("/track/bulk", h.requireToken, h.trackEventsBulk)
	h.router.GET("/stats", h.getStats)
	h.router.GET("/stats/top-questions", h.getTopQuestions)
	h.router.GET("/stats/unanswered-questions", h.getUnansweredQuestions)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// requireToken rejects tracking requests without a valid per-page nonce/token
// pair.
func (h *Handler) requireToken(c *gin.Context) {
	nonce := c.GetHeader("X-Tracking-Nonce")
	token := c.GetHeader("X-Tracking-Token")

	if !h.tokens.Verify(nonce, token) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "invalid_token",
			Message: "missing or invalid tracking token",
		})
		return
	}

	c.Next()
}

// requestContext extracts the server-trusted request state.
func (h *Handler) requestContext(c *gin.Context) service.RequestContext {
	cookieValue, _ := c.Cookie(h.resolver.CookieName())
	sessionID, _ := c.Cookie(h.resolver.SessionCookieName())

	return service.RequestContext{
		UserID:      c.GetHeader("X-User-ID"),
		SessionID:   sessionID,
		CookieValue: cookieValue,
		RemoteAddr:  c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		RequestURL:  c.Request.RequestURI,
		Referrer:    c.Request.Referer(),
		Secure:      c.Request.TLS != nil,
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// resolveIdentity handles GET /identity
// @Summary Resolve the visitor identity
// @Description Resolve (creating if absent) the stable visitor identity, set the signed identity cookie, and return the per-page transport credentials
// @Tags identity
// @Produce json
// @Success 200 {object} dto.IdentityResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /identity [get]
func (h *Handler) resolveIdentity(c *gin.Context) {
	rc := h.requestContext(c)

	resolution, err := h.resolver.Resolve(c.Request.Context(), identity.RequestState{
		UserID:      rc.UserID,
		SessionID:   rc.SessionID,
		CookieValue: rc.CookieValue,
		Secure:      rc.Secure,
	})
	if err != nil {
		h.log.Error("Failed to resolve identity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	if resolution.SetCookie != nil {
		http.SetCookie(c.Writer, resolution.SetCookie)
	}

	nonce, token := h.tokens.Issue()
	c.JSON(http.StatusOK, dto.IdentityResponse{
		IdentityID: resolution.Identity.ID,
		Origin:     string(resolution.Identity.Origin),
		Nonce:      nonce,
		Token:      token,
	})
}

// registerIdentity handles POST /identity/register
// @Summary Link the guest identity to a new account
// @Description Copy the current guest identity into a freshly registered account; never overwrites an existing link
// @Tags identity
// @Accept json
// @Produce json
// @Param registration body dto.RegisterIdentityRequest true "Registration data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /identity/register [post]
func (h *Handler) registerIdentity(c *gin.Context) {
	var req dto.RegisterIdentityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	rc := h.requestContext(c)
	err := h.resolver.MergeOnRegistration(c.Request.Context(), req.UserID, identity.RequestState{
		SessionID:   rc.SessionID,
		CookieValue: rc.CookieValue,
		Secure:      rc.Secure,
	})
	if err != nil {
		h.log.Error("Failed to merge guest identity",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// trackEvent handles POST /track
// @Summary Track a single event
// @Description Validate, enrich, and enqueue one behavioral event for append-only storage
// @Tags tracking
// @Accept json
// @Produce json
// @Param event body dto.TrackEventRequest true "Event data"
// @Param X-Tracking-Nonce header string true "Per-page nonce"
// @Param X-Tracking-Token header string true "Token matching the nonce"
// @Success 202 {object} dto.TrackEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /track [post]
func (h *Handler) trackEvent(c *gin.Context) {
	var req dto.TrackEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid tracking request",
			zap.Error(err),
			zap.String("event_type", req.EventType))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), &req, h.requestContext(c))
	if err != nil {
		h.log.Error("Failed to ingest event",
			zap.Error(err),
			zap.String("event_type", req.EventType))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	if result.Skipped {
		c.JSON(http.StatusAccepted, dto.TrackEventResponse{
			Status: "skipped",
		})
		return
	}

	h.log.Info("Event accepted",
		zap.String("event_id", result.EventID),
		zap.String("event_type", req.EventType))

	c.JSON(http.StatusAccepted, dto.TrackEventResponse{
		EventID: result.EventID,
		Status:  "accepted",
	})
}

// trackEventsBulk handles POST /track/bulk
// @Summary Track multiple events
// @Description Validate, enrich, and enqueue multiple behavioral events
// @Tags tracking
// @Accept json
// @Produce json
// @Param events body dto.TrackEventsBulkRequest true "Bulk event data"
// @Param X-Tracking-Nonce header string true "Per-page nonce"
// @Param X-Tracking-Token header string true "Token matching the nonce"
// @Success 202 {object} dto.TrackEventsBulkResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /track/bulk [post]
func (h *Handler) trackEventsBulk(c *gin.Context) {
	var bulkRequest dto.TrackEventsBulkRequest

	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk tracking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	eventIDs, skipped, errs := h.ingest.IngestBulk(c.Request.Context(), bulkRequest.Events, h.requestContext(c))

	h.log.Info("Bulk events processed",
		zap.Int("accepted", len(eventIDs)),
		zap.Int("skipped", skipped),
		zap.Int("rejected", len(errs)),
		zap.Int("total", len(bulkRequest.Events)))

	c.JSON(http.StatusAccepted, dto.TrackEventsBulkResponse{
		Accepted: len(eventIDs),
		Skipped:  skipped,
		Rejected: len(errs),
		EventIDs: eventIDs,
		Errors:   errs,
	})
}

// getStats handles GET /stats
// @Summary Get usage stats
// @Description Retrieve session/message totals with period-over-period trend deltas
// @Tags analytics
// @Produce json
// @Param from query int true "Start timestamp (Unix epoch)" example:"1756419200"
// @Param to query int true "End timestamp (Unix epoch)" example:"1756678400"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	var req dto.StatsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.analytics.Stats(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getTopQuestions handles GET /stats/top-questions
// @Summary Get top questions
// @Description Retrieve visitor questions ranked by frequency, ties broken by first-seen order
// @Tags analytics
// @Produce json
// @Param from query int true "Start timestamp (Unix epoch)" example:"1756419200"
// @Param to query int true "End timestamp (Unix epoch)" example:"1756678400"
// @Param limit query int false "Maximum number of questions" example:"10"
// @Success 200 {object} dto.TopQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats/top-questions [get]
func (h *Handler) getTopQuestions(c *gin.Context) {
	var req dto.TopQuestionsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.analytics.TopQuestions(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get top questions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getUnansweredQuestions handles GET /stats/unanswered-questions
// @Summary Get unanswered questions
// @Description Retrieve visitor turns that received no assistant follow-up
// @Tags analytics
// @Produce json
// @Param from query int true "Start timestamp (Unix epoch)" example:"1756419200"
// @Param to query int true "End timestamp (Unix epoch)" example:"1756678400"
// @Success 200 {object} dto.UnansweredQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats/unanswered-questions [get]
func (h *Handler) getUnansweredQuestions(c *gin.Context) {
	var req dto.UnansweredQuestionsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.analytics.UnansweredQuestions(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get unanswered questions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
