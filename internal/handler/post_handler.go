package handler

import (
	"net/http"

	"socialise/backend/internal/auth"
	"socialise/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ContentInput is the body of a post or a comment.
type ContentInput struct {
	Content string `json:"content" binding:"required,max=5000" example:"Hello world"`
}

// PostHandler serves posts, their comments and likes.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Feed godoc
// @Summary      Get a user's feed
// @Description  Posts by the user and by the user's friends, newest first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID (must be you)"
// @Success      200     {array}   PostResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/feed/{userId} [get]
func (h *PostHandler) Feed(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	posts, err := h.posts.Feed(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, buildPostResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      ContentInput  true  "Post content"
// @Success      201    {object}  PostResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var input ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewerID, _ := auth.UserID(c)

	post, err := h.posts.Create(c.Request.Context(), viewerID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildPostResponse(*post))
}

// Get godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  PostResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/{postId} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPostResponse(*post))
}

// Delete godoc
// @Summary      Delete a post
// @Description  Only the author may delete a post. Its comments, likes and notifications go with it.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  MessageResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/{postId} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.Delete(c.Request.Context(), viewerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted"})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int           true  "Post ID"
// @Param        input   body      ContentInput  true  "Comment"
// @Success      201     {object}  CommentResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/{postId}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	var input ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewerID, _ := auth.UserID(c)

	comment, err := h.posts.AddComment(c.Request.Context(), viewerID, postID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildCommentResponse(*comment))
}

// DeleteComment godoc
// @Summary      Delete a comment on a post
// @Description  Allowed for the comment's author and the post's author.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path      int  true  "Post ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /posts/{postId}/comments/{commentId} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.DeleteComment(c.Request.Context(), viewerID, postID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}

// Like godoc
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  ErrorResponse "Already liked"
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/{postId}/like [post]
func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.Like(c.Request.Context(), viewerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Post liked"})
}

// Unlike godoc
// @Summary      Unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  ErrorResponse "Not liked"
// @Failure      404     {object}  ErrorResponse
// @Router       /posts/{postId}/like [delete]
func (h *PostHandler) Unlike(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.Unlike(c.Request.Context(), viewerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Post unliked"})
}

// LikeComment godoc
// @Summary      Like a comment on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path      int  true  "Post ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      400        {object}  ErrorResponse "Already liked"
// @Failure      404        {object}  ErrorResponse
// @Router       /posts/{postId}/comments/{commentId}/like [post]
func (h *PostHandler) LikeComment(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.LikeComment(c.Request.Context(), viewerID, postID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment liked"})
}

// UnlikeComment godoc
// @Summary      Unlike a comment on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path      int  true  "Post ID"
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200        {object}  MessageResponse
// @Failure      400        {object}  ErrorResponse "Not liked"
// @Failure      404        {object}  ErrorResponse
// @Router       /posts/{postId}/comments/{commentId}/like [delete]
func (h *PostHandler) UnlikeComment(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}
	viewerID, _ := auth.UserID(c)
	if err := h.posts.UnlikeComment(c.Request.Context(), viewerID, postID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment unliked"})
}
