package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goforum/internal/app"
	"goforum/internal/pkg/pagination"
	"goforum/internal/transport/http/middleware"
	"goforum/internal/transport/http/response"
)

type ForumHandler struct {
	forumService *app.ForumService
}

func NewForumHandler(forumService *app.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

type pageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

func (q pageQuery) params() pagination.Params {
	return pagination.Params{Page: q.Page, Limit: q.Limit}
}

type searchQuery struct {
	Query string `form:"q" binding:"required"`
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,max=500"`
}

type SubforumRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,max=500"`
	CategoryID  uint   `json:"categoryId" binding:"required"`
}

type ThreadRequest struct {
	Title      string `json:"title" binding:"required,min=3,max=200"`
	Content    string `json:"content" binding:"required,min=10,max=10000"`
	SubforumID uint   `json:"subforumId" binding:"required"`
}

type PostRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=10000"`
	ThreadID uint   `json:"threadId" binding:"required"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

func idParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(raw), true
}

func (h *ForumHandler) ListCategories(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	page, err := h.forumService.ListCategories(c.Request.Context(), q.params())
	if err != nil {
		response.Internal(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ForumHandler) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	category, err := h.forumService.GetCategory(id)
	if err != nil {
		if errors.Is(err, app.ErrCategoryNotFound) {
			response.Message(c, http.StatusNotFound, "Category not found")
			return
		}
		response.Internal(c, "get category", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *ForumHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	category, err := h.forumService.CreateCategory(c.Request.Context(), app.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Internal(c, "create category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *ForumHandler) CreateSubforum(c *gin.Context) {
	var req SubforumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	subforum, err := h.forumService.CreateSubforum(c.Request.Context(), app.CreateSubforumInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, app.ErrCategoryNotFound) {
			response.Message(c, http.StatusNotFound, "Category not found")
			return
		}
		response.Internal(c, "create subforum", err)
		return
	}
	c.JSON(http.StatusCreated, subforum)
}

func (h *ForumHandler) GetSubforum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	detail, err := h.forumService.GetSubforum(id, q.params())
	if err != nil {
		if errors.Is(err, app.ErrSubforumNotFound) {
			response.Message(c, http.StatusNotFound, "Subforum not found")
			return
		}
		response.Internal(c, "get subforum", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ForumHandler) GetSubforumsByCategory(c *gin.Context) {
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	page, err := h.forumService.GetSubforumsByCategory(categoryID, q.params())
	if err != nil {
		if errors.Is(err, app.ErrCategoryNotFound) {
			response.Message(c, http.StatusNotFound, "Category not found")
			return
		}
		response.Internal(c, "list subforums by category", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ForumHandler) CreateThread(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	var req ThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	thread, err := h.forumService.CreateThread(app.CreateThreadInput{
		Title:      req.Title,
		Content:    req.Content,
		SubforumID: req.SubforumID,
		AuthorID:   user.ID,
	})
	if err != nil {
		if errors.Is(err, app.ErrSubforumNotFound) {
			response.Message(c, http.StatusNotFound, "Subforum not found")
			return
		}
		response.Internal(c, "create thread", err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (h *ForumHandler) GetThread(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	detail, err := h.forumService.GetThread(id, q.params())
	if err != nil {
		if errors.Is(err, app.ErrThreadNotFound) {
			response.Message(c, http.StatusNotFound, "Thread not found")
			return
		}
		response.Internal(c, "get thread", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ForumHandler) DeleteThread(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.forumService.DeleteThread(id, user); err != nil {
		switch {
		case errors.Is(err, app.ErrThreadNotFound):
			response.Message(c, http.StatusNotFound, "Thread not found")
		case errors.Is(err, app.ErrNotAuthorized):
			response.Message(c, http.StatusForbidden, "You are not authorized to delete this thread")
		default:
			response.Internal(c, "delete thread", err)
		}
		return
	}

	response.Message(c, http.StatusOK, "Thread and associated posts deleted successfully")
}

func (h *ForumHandler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	post, err := h.forumService.CreatePost(app.CreatePostInput{
		Content:  req.Content,
		ThreadID: req.ThreadID,
		AuthorID: user.ID,
	})
	if err != nil {
		if errors.Is(err, app.ErrThreadNotFound) {
			response.Message(c, http.StatusNotFound, "Thread not found")
			return
		}
		response.Internal(c, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *ForumHandler) UpdatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	post, err := h.forumService.UpdatePost(id, req.Content, user)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPostNotFound):
			response.Message(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, app.ErrNotAuthorized):
			response.Message(c, http.StatusForbidden, "You are not authorized to update this post")
		default:
			response.Internal(c, "update post", err)
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ForumHandler) DeletePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Message(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.forumService.DeletePost(id, user); err != nil {
		switch {
		case errors.Is(err, app.ErrPostNotFound):
			response.Message(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, app.ErrNotAuthorized):
			response.Message(c, http.StatusForbidden, "You are not authorized to delete this post")
		default:
			response.Internal(c, "delete post", err)
		}
		return
	}

	response.Message(c, http.StatusOK, "Post deleted successfully")
}

func (h *ForumHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.forumService.Search(q.Query, pagination.Params{Page: q.Page, Limit: q.Limit})
	if err != nil {
		if errors.Is(err, app.ErrEmptyQuery) {
			response.Message(c, http.StatusBadRequest, "Search query is required")
			return
		}
		response.Internal(c, "search forum", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
