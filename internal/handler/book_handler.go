package handler

import (
	"net/http"
	"strconv"

	"Lin_BookClub/internal/middleware"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookHandler struct {
	svc *service.BookService
}

type CreateAuthorReq struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateBookReq struct {
	Title           string `json:"title" binding:"required,max=200"`
	PublicationYear int    `json:"publication_year" binding:"required"`
	AuthorID        uint64 `json:"author_id" binding:"required"`
	ISBN            string `json:"isbn"`
}

type UpdateBookReq struct {
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	AuthorID        *uint64 `json:"author_id"`
	ISBN            *string `json:"isbn"`
}

func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{
		svc: service.NewBookService(db),
	}
}

// CreateAuthor 馆员及以上可新增作者
func (h *BookHandler) CreateAuthor(c *gin.Context) {
	var req CreateAuthorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	author, err := h.svc.CreateAuthor(middleware.Role(c), req.Name)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *BookHandler) GetAuthor(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	author, err := h.svc.GetAuthor(id)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *BookHandler) ListAuthors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	authors, err := h.svc.ListAuthors(page, size)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": authors})
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	book, err := h.svc.CreateBook(middleware.UserID(c), service.CreateBookInput{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
		ISBN:            req.ISBN,
	})
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	book, err := h.svc.GetBook(id)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// ListBooks 书目检索：年份/作者过滤 + 标题/作者名搜索 + 白名单排序
func (h *BookHandler) ListBooks(c *gin.Context) {
	var in service.ListBooksInput
	in.Search = c.Query("search")
	in.OrderBy = c.Query("order_by")
	in.Desc = c.Query("desc") == "true"
	in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	in.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	if v := c.Query("publication_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid publication_year"})
			return
		}
		in.PublicationYear = &year
	}
	if v := c.Query("author_id"); v != "" {
		aid, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid author_id"})
			return
		}
		in.AuthorID = &aid
	}

	books, err := h.svc.ListBooks(in)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": books})
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	var req UpdateBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	book, err := h.svc.UpdateBook(middleware.UserID(c), middleware.Role(c), id, service.UpdateBookInput{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
		ISBN:            req.ISBN,
	})
	if err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.WriteError(c, err)
		return
	}

	if err := h.svc.DeleteBook(middleware.UserID(c), middleware.Role(c), id); err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
