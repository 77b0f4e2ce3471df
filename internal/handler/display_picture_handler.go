package handler

import (
	"net/http"

	"socialise/backend/internal/auth"
	"socialise/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SetDisplayPictureInput references an image that has already been stored.
type SetDisplayPictureInput struct {
	Filename string `json:"filename" binding:"required,max=512" example:"ada.png"`
}

// DisplayPictureHandler serves display pictures, their comments and likes.
type DisplayPictureHandler struct {
	pictures *service.DisplayPictureService
}

// NewDisplayPictureHandler creates a new DisplayPictureHandler.
func NewDisplayPictureHandler(pictures *service.DisplayPictureService) *DisplayPictureHandler {
	return &DisplayPictureHandler{pictures: pictures}
}

// Set godoc
// @Summary      Set your display picture
// @Description  Replaces the caller's display picture. Likes and comments on the previous picture are removed.
// @Tags         display-pictures
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      SetDisplayPictureInput  true  "Picture reference"
// @Success      200    {object}  DisplayPictureResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /display-pictures [put]
func (h *DisplayPictureHandler) Set(c *gin.Context) {
	var input SetDisplayPictureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewerID, _ := auth.UserID(c)

	pic, err := h.pictures.Set(c.Request.Context(), viewerID, input.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildDisplayPictureResponse(*pic))
}

// Get godoc
// @Summary      Get a user's display picture
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "Owner ID"
// @Success      200     {object}  DisplayPictureResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /display-pictures/user/{userId} [get]
func (h *DisplayPictureHandler) Get(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	pic, err := h.pictures.GetByUser(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildDisplayPictureResponse(*pic))
}

// AddComment godoc
// @Summary      Comment on a display picture
// @Tags         display-pictures
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int           true  "Owner ID"
// @Param        input   body      ContentInput  true  "Comment"
// @Success      201     {object}  CommentResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /display-pictures/user/{userId}/comments [post]
func (h *DisplayPictureHandler) AddComment(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var input ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewerID, _ := auth.UserID(c)

	comment, err := h.pictures.AddComment(c.Request.Context(), viewerID, ownerID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildCommentResponse(*comment))
}

// DeleteComment godoc
// @Summary      Delete a comment on a display picture
// @Description  Allowed for the comment's author and the picture's owner.
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        pictureId  path      int  true  "Display picture ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /display-pictures/{pictureId}/comments/{commentId} [delete]
func (h *DisplayPictureHandler) DeleteComment(c *gin.Context) {
	pictureID, ok := paramID(c, "pictureId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.pictures.DeleteComment(c.Request.Context(), viewerID, pictureID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}

// Like godoc
// @Summary      Like a display picture
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "Owner ID"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  ErrorResponse "Already liked"
// @Failure      404     {object}  ErrorResponse
// @Router       /display-pictures/user/{userId}/like [post]
func (h *DisplayPictureHandler) Like(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.pictures.Like(c.Request.Context(), viewerID, ownerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Display picture liked"})
}

// Unlike godoc
// @Summary      Unlike a display picture
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "Owner ID"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  ErrorResponse "Not liked"
// @Failure      404     {object}  ErrorResponse
// @Router       /display-pictures/user/{userId}/like [delete]
func (h *DisplayPictureHandler) Unlike(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.pictures.Unlike(c.Request.Context(), viewerID, ownerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Display picture unliked"})
}

// LikeComment godoc
// @Summary      Like a comment on a display picture
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        pictureId  path      int  true  "Display picture ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      400        {object}  ErrorResponse "Already liked"
// @Failure      404        {object}  ErrorResponse
// @Router       /display-pictures/{pictureId}/comments/{commentId}/like [post]
func (h *DisplayPictureHandler) LikeComment(c *gin.Context) {
	pictureID, ok := paramID(c, "pictureId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.pictures.LikeComment(c.Request.Context(), viewerID, pictureID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment liked"})
}

// UnlikeComment godoc
// @Summary      Unlike a comment on a display picture
// @Tags         display-pictures
// @Produce      json
// @Security     BearerAuth
// @Param        pictureId  path      int  true  "Display picture ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      400        {object}  ErrorResponse "Not liked"
// @Failure      404        {object}  ErrorResponse
// @Router       /display-pictures/{pictureId}/comments/{commentId}/like [delete]
func (h *DisplayPictureHandler) UnlikeComment(c *gin.Context) {
	pictureID, ok := paramID(c, "pictureId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.pictures.UnlikeComment(c.Request.Context(), viewerID, pictureID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment unliked"})
}
