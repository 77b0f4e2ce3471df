package handler

import (
	"net/http"

	"socialise/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RelationHandler serves the friendship routes. Every route is addressed by
// the pair (userId, otherUserId); mutations run as userId.
type RelationHandler struct {
	relationships *service.RelationshipManager
}

// NewRelationHandler creates a new RelationHandler.
func NewRelationHandler(relationships *service.RelationshipManager) *RelationHandler {
	return &RelationHandler{relationships: relationships}
}

// CreatedResponse carries the id of a created record.
type CreatedResponse struct {
	ID uint `json:"id" example:"1"`
}

func pairParams(c *gin.Context) (uint, uint, bool) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return 0, 0, false
	}
	otherID, ok := paramID(c, "otherUserId")
	if !ok {
		return 0, 0, false
	}
	return userID, otherID, true
}

// GetStatus godoc
// @Summary      Get friendship status
// @Description  Reports whether the users are friends and which one has a pending request to the other.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "User A"
// @Param        otherUserId  path      int  true  "User B"
// @Success      200          {object}  StatusResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      404          {object}  ErrorResponse "Unknown user"
// @Router       /friends/status/{userId}/{otherUserId} [get]
func (h *RelationHandler) GetStatus(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	st, err := h.relationships.GetStatus(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildStatusResponse(st))
}

// ListFriends godoc
// @Summary      List a user's friends
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {array}   UserSummary
// @Failure      404     {object}  ErrorResponse
// @Router       /friends/{userId} [get]
func (h *RelationHandler) ListFriends(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	friends, err := h.relationships.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserSummaries(friends))
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request from userId to otherUserId and notifies the recipient.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "Requester (must be you)"
// @Param        otherUserId  path      int  true  "Recipient"
// @Success      201          {object}  CreatedResponse "Notification ID"
// @Failure      400          {object}  ErrorResponse "Already friends or request pending"
// @Failure      403          {object}  ErrorResponse
// @Failure      404          {object}  ErrorResponse "Unknown user"
// @Router       /friends/add/{userId}/{otherUserId} [post]
func (h *RelationHandler) SendRequest(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	n, err := h.relationships.SendRequest(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: n.ID})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts the pending request otherUserId sent to userId.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "Accepter (must be you)"
// @Param        otherUserId  path      int  true  "Requester"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  ErrorResponse "No matching request"
// @Failure      403          {object}  ErrorResponse
// @Router       /friends/accept/{userId}/{otherUserId} [post]
func (h *RelationHandler) AcceptRequest(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	if _, err := h.relationships.AcceptRequest(c.Request.Context(), userID, otherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend request accepted"})
}

// DenyRequest godoc
// @Summary      Deny friend request
// @Description  Declines the pending request otherUserId sent to userId.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "Decliner (must be you)"
// @Param        otherUserId  path      int  true  "Requester"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  ErrorResponse "No matching request"
// @Failure      403          {object}  ErrorResponse
// @Router       /friends/deny/{userId}/{otherUserId} [post]
func (h *RelationHandler) DenyRequest(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	if err := h.relationships.DenyRequest(c.Request.Context(), userID, otherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend request denied"})
}

// CancelRequest godoc
// @Summary      Cancel friend request
// @Description  Withdraws the pending request userId sent to otherUserId.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "Requester (must be you)"
// @Param        otherUserId  path      int  true  "Recipient"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  ErrorResponse "No matching request"
// @Failure      403          {object}  ErrorResponse
// @Router       /friends/cancel/{userId}/{otherUserId} [post]
func (h *RelationHandler) CancelRequest(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	if err := h.relationships.CancelRequest(c.Request.Context(), userID, otherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend request cancelled"})
}

// RemoveFriend godoc
// @Summary      Remove friend
// @Description  Ends the friendship in both directions. Removing a non-friend succeeds.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      int  true  "You"
// @Param        otherUserId  path      int  true  "Friend"
// @Success      200          {object}  MessageResponse
// @Failure      403          {object}  ErrorResponse
// @Router       /friends/remove/{userId}/{otherUserId} [delete]
func (h *RelationHandler) RemoveFriend(c *gin.Context) {
	userID, otherID, ok := pairParams(c)
	if !ok {
		return
	}
	if err := h.relationships.RemoveFriendship(c.Request.Context(), userID, otherID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Friend removed"})
}
