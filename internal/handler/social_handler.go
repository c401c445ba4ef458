package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/1786035110/GameForum/internal/httpapi/middleware"
	"github.com/1786035110/GameForum/internal/identity"
	"github.com/1786035110/GameForum/internal/service"
)

type SocialHandler struct {
	friends *service.FriendService
	profile *service.ProfileService
}

func NewSocialHandler(friends *service.FriendService, profile *service.ProfileService) *SocialHandler {
	return &SocialHandler{friends: friends, profile: profile}
}

func mustIdentity(c *gin.Context) (*identity.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// GetProfile GET /user/profile
func (h *SocialHandler) GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		vo, err := h.profile.GetProfile(c.Request.Context(), id.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if vo == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vo})
	}
}

// GetFriendList GET /friends
func (h *SocialHandler) GetFriendList() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		vos, err := h.friends.GetFriendList(c.Request.Context(), id.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vos})
	}
}

type friendRequestReq struct {
	Username string `json:"username" binding:"required"`
}

// SendFriendRequest POST /friends/requests
func (h *SocialHandler) SendFriendRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		var req friendRequestReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := h.friends.SendFriendRequest(c.Request.Context(), id.UserID, req.Username)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			case errors.Is(err, service.ErrSelfFriend):
				c.JSON(http.StatusBadRequest, gin.H{"error": "不能添加自己为好友"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	}
}

// GetFriendRequests GET /friends/requests
func (h *SocialHandler) GetFriendRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		vos, err := h.friends.GetFriendRequests(c.Request.Context(), id.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": vos})
	}
}

// AcceptFriendRequest POST /friends/requests/:requestId/accept
func (h *SocialHandler) AcceptFriendRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		requestID, ok := pathID(c, "requestId")
		if !ok {
			return
		}
		if err := h.friends.AcceptFriendRequest(c.Request.Context(), id.UserID, requestID); err != nil {
			if errors.Is(err, service.ErrRequestMissing) {
				c.JSON(http.StatusNotFound, gin.H{"error": "好友请求不存在"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	}
}

// DeleteFriend DELETE /friends/:friendId
func (h *SocialHandler) DeleteFriend() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := mustIdentity(c)
		if !ok {
			return
		}
		friendID, ok := pathID(c, "friendId")
		if !ok {
			return
		}
		deleted, err := h.friends.DeleteFriend(c.Request.Context(), id.UserID, friendID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "好友关系不存在"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	}
}
