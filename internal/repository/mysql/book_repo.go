package mysql

import (
	"Lin_BookClub/internal/model"

	"gorm.io/gorm"
)

type AuthorRepository struct {
	DB *gorm.DB
}

func (r *AuthorRepository) Create(a *model.Author) error {
	return r.DB.Create(a).Error
}

func (r *AuthorRepository) FindByID(id uint64) (*model.Author, error) {
	var author model.Author
	err := r.DB.First(&author, id).Error
	return &author, err
}

func (r *AuthorRepository) List(offset, limit int) ([]model.Author, error) {
	var list []model.Author
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

type BookRepository struct {
	DB *gorm.DB
}

// BookListQuery 列表查询参数；字段都是白名单化之后的
type BookListQuery struct {
	PublicationYear *int
	AuthorID        *uint64
	Search          string // 模糊匹配书名或作者名
	OrderBy         string // title / publication_year / created_at，空串按 id desc
	Desc            bool
	Offset          int
	Limit           int
}

// bookOrderColumns 排序字段白名单，防止任意字段注入
var bookOrderColumns = map[string]string{
	"title":            "books.title",
	"publication_year": "books.publication_year",
	"created_at":       "books.created_at",
}

// OrderColumn 白名单校验，非法字段返回 false
func OrderColumn(field string) (string, bool) {
	col, ok := bookOrderColumns[field]
	return col, ok
}

func (r *BookRepository) Create(b *model.Book) error {
	return r.DB.Create(b).Error
}

func (r *BookRepository) FindByID(id uint64) (*model.Book, error) {
	var book model.Book
	err := r.DB.First(&book, id).Error
	return &book, err
}

// List 等值过滤 + 书名/作者名模糊搜索 + 白名单排序
func (r *BookRepository) List(q BookListQuery) ([]model.Book, error) {
	db := r.DB.Model(&model.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id")

	if q.PublicationYear != nil {
		db = db.Where("books.publication_year = ?", *q.PublicationYear)
	}
	if q.AuthorID != nil {
		db = db.Where("books.author_id = ?", *q.AuthorID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("books.title LIKE ? OR authors.name LIKE ?", like, like)
	}

	order := "books.id desc"
	if q.OrderBy != "" {
		if col, ok := OrderColumn(q.OrderBy); ok {
			order = col
			if q.Desc {
				order += " desc"
			}
		}
	}

	var list []model.Book
	err := db.Select("books.*").Order(order).Offset(q.Offset).Limit(q.Limit).Find(&list).Error
	return list, err
}

func (r *BookRepository) Update(id uint64, updates map[string]any) error {
	return r.DB.Model(&model.Book{}).Where("id = ?", id).Updates(updates).Error
}

func (r *BookRepository) Delete(id uint64) (int64, error) {
	res := r.DB.Delete(&model.Book{}, id)
	return res.RowsAffected, res.Error
}
