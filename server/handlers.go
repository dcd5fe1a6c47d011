package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"willchat/chat"
	"willchat/config"
	"willchat/model"
	"willchat/storage"
)

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateDTO(s.store.State()))
}

// listConversations returns summaries, or search matches when q is set.
func (s *Server) listConversations(c *gin.Context) {
	state := s.store.State()
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		c.JSON(http.StatusOK, toMatches(storage.SearchConversations(state.Conversations, q)))
		return
	}
	c.JSON(http.StatusOK, toSummaries(state))
}

func (s *Server) createConversation(c *gin.Context) {
	conv := s.store.CreateNewConversation()
	c.JSON(http.StatusCreated, toConversationDTO(conv))
}

func (s *Server) selectConversation(c *gin.Context) {
	if err := s.store.SelectConversation(c.Param("id")); err != nil {
		errorJSON(c, http.StatusNotFound, "Conversation not found")
		return
	}
	c.JSON(http.StatusOK, toStateDTO(s.store.State()))
}

func (s *Server) renameConversation(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	newTitle := strings.TrimSpace(req.Title)
	if newTitle == "" {
		errorJSON(c, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	id := c.Param("id")
	if !s.store.EditConversationTitle(id, newTitle) {
		errorJSON(c, http.StatusNotFound, "Conversation not found")
		return
	}
	conv, _ := s.store.Conversation(id)
	c.JSON(http.StatusOK, toConversationDTO(conv))
}

func (s *Server) deleteConversation(c *gin.Context) {
	if !s.store.DeleteConversation(c.Param("id")) {
		errorJSON(c, http.StatusNotFound, "Conversation not found")
		return
	}
	c.JSON(http.StatusOK, toStateDTO(s.store.State()))
}

func (s *Server) exportConversation(c *gin.Context) {
	conv, ok := s.store.Conversation(c.Param("id"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "Conversation not found")
		return
	}

	data, err := storage.MarshalConversation(conv, true)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to export conversation")
		return
	}

	filename := fmt.Sprintf("willchat-%s.json", storage.SanitizeFilename(conv.Title))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		errorJSON(c, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if !s.beginReply(c) {
		return
	}
	defer s.replying.Store(false)

	reply, err := s.store.SendMessage(c.Request.Context(), content)
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.respondWithMessage(c, reply)
}

func (s *Server) regenerateMessage(c *gin.Context) {
	if !s.beginReply(c) {
		return
	}
	defer s.replying.Store(false)

	reply, err := s.store.RegenerateMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.respondWithMessage(c, reply)
}

// beginReply claims the reply slot or answers 409. The store may also be
// busy with a reply started outside this server.
func (s *Server) beginReply(c *gin.Context) bool {
	if !s.replying.CompareAndSwap(false, true) {
		errorJSON(c, http.StatusConflict, "A reply is already in progress")
		return false
	}
	if s.store.Loading() {
		s.replying.Store(false)
		errorJSON(c, http.StatusConflict, "A reply is already in progress")
		return false
	}
	return true
}

func (s *Server) respondWithMessage(c *gin.Context, reply model.Message) {
	resp := messageResponse{Message: toMessageDTO(reply)}
	if conv, ok := s.store.ActiveConversation(); ok {
		resp.Conversation = toConversationDTO(conv)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrMessageNotFound):
		errorJSON(c, http.StatusNotFound, "Message not found")
	case errors.Is(err, chat.ErrConversationNotFound):
		errorJSON(c, http.StatusNotFound, "Conversation not found")
	case errors.Is(err, chat.ErrNoActiveConversation):
		errorJSON(c, http.StatusConflict, "No active conversation")
	default:
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Internal error")
	}
}

func (s *Server) getPro(c *gin.Context) {
	if s.pro == nil {
		errorJSON(c, http.StatusNotFound, "Pro mode unavailable")
		return
	}
	c.JSON(http.StatusOK, proDTO{Enabled: s.pro.Enabled(), Model: s.pro.Model()})
}

func (s *Server) activatePro(c *gin.Context) {
	if s.pro == nil {
		errorJSON(c, http.StatusNotFound, "Pro mode unavailable")
		return
	}

	var req proRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	if err := s.pro.Activate(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, config.ErrProNotConfigured):
			errorJSON(c, http.StatusForbidden, "Pro mode is not configured")
		default:
			errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
		}
		return
	}
	c.JSON(http.StatusOK, proDTO{Enabled: true, Model: s.pro.Model()})
}

func (s *Server) deactivatePro(c *gin.Context) {
	if s.pro == nil {
		errorJSON(c, http.StatusNotFound, "Pro mode unavailable")
		return
	}
	s.pro.Deactivate()
	c.JSON(http.StatusOK, proDTO{Enabled: false, Model: s.pro.Model()})
}
