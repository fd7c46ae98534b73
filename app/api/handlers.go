package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/astrolearn/app/auth"
	"github.com/lysyi3m/astrolearn/app/catalog"
	"github.com/lysyi3m/astrolearn/app/chatbot"
	"github.com/lysyi3m/astrolearn/app/database"
	"github.com/lysyi3m/astrolearn/app/survey"
)

const (
	noResultsMessage = "Aucun objet céleste ne correspond à votre recherche."
	recentFeedback   = 10
)

func NewHandler(catalogService *catalog.Service, authService *auth.Service, surveyService *survey.Service,
	ingester IngesterInterface, responder ResponderInterface,
	objectRepo database.ObjectRepository, categoryRepo database.CategoryRepository,
	surveyRepo database.SurveyRepository, ingest IngestDefaults) *Handler {
	return &Handler{
		catalog:      catalogService,
		auth:         authService,
		survey:       surveyService,
		ingester:     ingester,
		responder:    responder,
		objectRepo:   objectRepo,
		categoryRepo: categoryRepo,
		surveyRepo:   surveyRepo,
		ingest:       ingest,
	}
}

func (h *Handler) GetIndex(c *gin.Context) {
	searchTerm := c.Query("search_term")
	categoryParam := c.Query("category_id")

	objects, filtered, err := h.catalog.Browse(c.Request.Context(), searchTerm, categoryParam)
	if err != nil {
		slog.Error("Database error", "operation", "browse", "search_term", searchTerm, "category_id", categoryParam, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := gin.H{
		"objects":     objects,
		"total":       len(objects),
		"categories":  categories,
		"search_term": searchTerm,
		"category_id": categoryParam,
	}
	if filtered && len(objects) == 0 {
		response["message"] = noResultsMessage
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetObject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid object id"})
		return
	}

	object, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_object", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if object == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		return
	}

	c.JSON(http.StatusOK, object)
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetSurvey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form_url": h.survey.ExternalFormURL()})
}

func (h *Handler) PostSurvey(c *gin.Context) {
	var submission survey.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := h.survey.Submit(c.Request.Context(), submission)
	if err != nil {
		var ve *survey.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission", "fields": ve.Fields})
		case errors.Is(err, survey.ErrUnknownObject):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown object"})
		default:
			slog.Error("Database error", "operation", "insert_feedback", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Merci pour votre retour !",
	})
}

func (h *Handler) PostChatbot(c *gin.Context) {
	if h.responder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chatbot is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.responder.Reply(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, chatbot.ErrEmptyMessage) || errors.Is(err, chatbot.ErrMessageTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Chatbot error", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chatbot is unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Handle and password are required"})
		return
	}

	session, token, err := h.auth.Login(c.Request.Context(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		slog.Error("Database error", "operation", "login", "handle", req.Handle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)

	slog.Info("Administrator logged in", "handle", session.Handle)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"handle":     session.Handle,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) PostLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessionFrom(c)

	objectCount, err := h.objectRepo.GetObjectCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_object_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	counts, err := h.categoryRepo.GetCategoryCounts(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_category_counts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	feedbackCount, err := h.surveyRepo.GetFeedbackCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_feedback_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	recent, err := h.surveyRepo.ListRecentFeedback(ctx, recentFeedback)
	if err != nil {
		slog.Error("Database error", "operation", "list_recent_feedback", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	categories := make([]gin.H, 0, len(counts))
	for _, count := range counts {
		categories = append(categories, gin.H{
			"id":      count.ID,
			"name":    count.Name,
			"objects": count.Objects,
		})
	}

	feedback := make([]gin.H, 0, len(recent))
	for _, item := range recent {
		feedback = append(feedback, gin.H{
			"id":           item.ID,
			"email":        item.Email,
			"preference":   item.Preference,
			"submitted_at": item.SubmittedAt.Format(time.RFC3339),
			"object_id":    item.ObjectID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"admin":           session.Handle,
		"objects":         objectCount,
		"categories":      categories,
		"feedback":        feedbackCount,
		"recent_feedback": feedback,
	})
}

// PostIngest runs an ingestion synchronously. A failed run still reports the
// number of objects stored before the failure.
func (h *Handler) PostIngest(c *gin.Context) {
	req := ingestRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	if req.SearchTerm == "" {
		req.SearchTerm = h.ingest.SearchTerm
	}
	if req.MaxPages == 0 {
		req.MaxPages = h.ingest.MaxPages
	}
	if req.MaxPages < 1 || req.MaxPages > h.ingest.MaxPages {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("max_pages must be between 1 and %d", h.ingest.MaxPages),
		})
		return
	}

	session := sessionFrom(c)
	slog.Info("Ingestion requested", "handle", session.Handle, "term", req.SearchTerm, "max_pages", req.MaxPages)

	count, err := h.ingester.Ingest(c.Request.Context(), req.SearchTerm, req.MaxPages, session.AdminID)
	if err != nil {
		slog.Error("Ingestion failed", "term", req.SearchTerm, "stored", count, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success":     false,
			"count":       count,
			"search_term": req.SearchTerm,
			"error":       "Ingestion stopped early, check the logs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       count,
		"search_term": req.SearchTerm,
		"max_pages":   req.MaxPages,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if objectCount, err := h.objectRepo.GetObjectCount(c.Request.Context()); err == nil {
		health["objects"] = objectCount
	}

	c.JSON(http.StatusOK, health)
}
