package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/1786035110/GameForum/internal/httpapi/middleware"
	"github.com/1786035110/GameForum/internal/service"
)

type ForumHandler struct {
	posts      *service.PostService
	comments   *service.CommentService
	categories *service.CategoryService
}

func NewForumHandler(posts *service.PostService, comments *service.CommentService, categories *service.CategoryService) *ForumHandler {
	return &ForumHandler{posts: posts, comments: comments, categories: categories}
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// GetPost GET /forum/posts/:postId
func (h *ForumHandler) GetPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		postID, ok := pathID(c, "postId")
		if !ok {
			return
		}
		vo, err := h.posts.GetPost(c.Request.Context(), postID, id.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if vo == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vo})
	}
}

type postReq struct {
	CategoryID uint64 `json:"categoryId" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Summary    string `json:"summary"`
	Content    string `json:"content" binding:"required"`
}

// CreatePost POST /forum/posts
func (h *ForumHandler) CreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req postReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		postID, err := h.posts.CreatePost(c.Request.Context(), id.UserID, req.CategoryID, req.Title, req.Summary, req.Content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": postID})
	}
}

// LikePost POST /forum/posts/:postId/like
func (h *ForumHandler) LikePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		postID, ok := pathID(c, "postId")
		if !ok {
			return
		}
		vo, err := h.posts.LikePost(c.Request.Context(), postID, id.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vo})
	}
}

// ListComments GET /forum/posts/:postId/comments
func (h *ForumHandler) ListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := pathID(c, "postId")
		if !ok {
			return
		}
		vos, err := h.comments.ListComments(c.Request.Context(), postID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vos})
	}
}

type commentReq struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment POST /forum/posts/:postId/comments
func (h *ForumHandler) CreateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		postID, ok := pathID(c, "postId")
		if !ok {
			return
		}
		var req commentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		vo, err := h.comments.CreateComment(c.Request.Context(), postID, id.UserID, id.Username, req.Content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vo})
	}
}

// GetCategories GET /forum/categories
func (h *ForumHandler) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		vos, err := h.categories.GetForumCategories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vos})
	}
}
