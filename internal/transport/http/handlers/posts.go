package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// PostHandler exposes the community feed.
type PostHandler struct {
	posts *usecase.PostService
	auth  *usecase.AuthService
}

// NewPostHandler constructs PostHandler.
func NewPostHandler(posts *usecase.PostService, auth *usecase.AuthService) *PostHandler {
	return &PostHandler{posts: posts, auth: auth}
}

// RegisterRoutes binds the feed routes. Every route requires a login;
// the feed is for members only.
func (h *PostHandler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts", middleware.RequireAuth(h.auth))
	posts.GET("", h.listFeed)
	posts.GET("/mine", h.listOwnPosts)
	posts.POST("", h.createPost)
	posts.PUT("/:id", h.updatePost)
	posts.DELETE("/:id", h.deletePost)
	posts.POST("/:id/like", h.toggleLike)
	posts.POST("/:id/comments", h.addComment)
	posts.POST("/:id/report", h.reportPost)
}

func (h *PostHandler) listFeed(c *gin.Context) {
	posts, err := h.posts.ListFeed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, newPostResponses(posts))
}

func (h *PostHandler) listOwnPosts(c *gin.Context) {
	posts, err := h.posts.ListOwnPosts(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, newPostResponses(posts))
}

func (h *PostHandler) createPost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "content is required"))
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), req.Content, req.ImageURL)
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPostResponse(*post, 0, nil))
}

func (h *PostHandler) updatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "content is required"))
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Content, req.ImageURL)
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPostResponse(*post, 0, nil))
}

func (h *PostHandler) deletePost(c *gin.Context) {
	err := h.posts.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PostHandler) toggleLike(c *gin.Context) {
	liked, err := h.posts.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: liked})
}

func (h *PostHandler) addComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "content is required"))
		return
	}

	comment, err := h.posts.AddComment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Content)
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCommentResponse(*comment))
}

func (h *PostHandler) reportPost(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "reason is required"))
		return
	}

	report, err := h.posts.ReportPost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newReportResponse(*report))
}

func (h *PostHandler) respondPostError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		{Err: usecase.ErrNotOwner, Status: http.StatusForbidden, Message: "not the author of this post"},
	}, http.StatusInternalServerError, "post operation failed")
}
