package service

import (
	"regexp"
	"time"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"

	"gorm.io/gorm"
)

// isbnPattern 10位或13位纯数字
var isbnPattern = regexp.MustCompile(`^\d{10}(\d{3})?$`)

type BookService struct {
	authors *mysql.AuthorRepository
	books   *mysql.BookRepository
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{
		authors: &mysql.AuthorRepository{DB: db},
		books:   &mysql.BookRepository{DB: db},
	}
}

// CreateAuthor 馆员及以上角色可录入作者
func (s *BookService) CreateAuthor(actorRole pkg.Role, name string) (*model.Author, error) {
	if d := pkg.RequireRole(actorRole, pkg.RoleLibrarian); !d.Allowed {
		return nil, d.Forbidden()
	}
	if name == "" {
		return nil, pkg.NewError(pkg.KindValidation, "author name required")
	}
	author := &model.Author{Name: name}
	if err := s.authors.Create(author); err != nil {
		return nil, storeErr(err, "author not found", "author already exists")
	}
	return author, nil
}

func (s *BookService) GetAuthor(id uint64) (*model.Author, error) {
	author, err := s.authors.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "author not found", "")
	}
	return author, nil
}

func (s *BookService) ListAuthors(page, size int) ([]model.Author, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.authors.List((page-1)*size, size)
}

type CreateBookInput struct {
	Title           string
	PublicationYear int
	AuthorID        uint64
	ISBN            string
}

func validateISBN(isbn string) error {
	if !isbnPattern.MatchString(isbn) {
		return pkg.NewError(pkg.KindValidation, "isbn must be 10 or 13 digits")
	}
	return nil
}

func validateYear(year int) error {
	if year <= 0 {
		return pkg.NewError(pkg.KindValidation, "publication year required")
	}
	if year > time.Now().Year() {
		return pkg.NewError(pkg.KindValidation, "publication year cannot be in the future")
	}
	return nil
}

// CreateBook 登录用户均可录入，记录创建者
func (s *BookService) CreateBook(actorID uint64, in CreateBookInput) (*model.Book, error) {
	if in.Title == "" {
		return nil, pkg.NewError(pkg.KindValidation, "title required")
	}
	if err := validateYear(in.PublicationYear); err != nil {
		return nil, err
	}
	if _, err := s.authors.FindByID(in.AuthorID); err != nil {
		return nil, storeErr(err, "author not found", "")
	}

	book := &model.Book{
		AuthorID:        in.AuthorID,
		Title:           in.Title,
		PublicationYear: in.PublicationYear,
		CreatedBy:       actorID,
	}
	if in.ISBN != "" {
		if err := validateISBN(in.ISBN); err != nil {
			return nil, err
		}
		isbn := in.ISBN
		book.ISBN = &isbn
	}

	if err := s.books.Create(book); err != nil {
		return nil, storeErr(err, "book not found", "isbn already exists")
	}
	return book, nil
}

func (s *BookService) GetBook(id uint64) (*model.Book, error) {
	book, err := s.books.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "book not found", "")
	}
	return book, nil
}

type ListBooksInput struct {
	PublicationYear *int
	AuthorID        *uint64
	Search          string
	OrderBy         string
	Desc            bool
	Page            int
	Size            int
}

func (s *BookService) ListBooks(in ListBooksInput) ([]model.Book, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Size <= 0 || in.Size > 50 {
		in.Size = 20
	}
	if in.OrderBy != "" {
		if _, ok := mysql.OrderColumn(in.OrderBy); !ok {
			return nil, pkg.NewError(pkg.KindValidation, "unsupported order field")
		}
	}
	return s.books.List(mysql.BookListQuery{
		PublicationYear: in.PublicationYear,
		AuthorID:        in.AuthorID,
		Search:          in.Search,
		OrderBy:         in.OrderBy,
		Desc:            in.Desc,
		Offset:          (in.Page - 1) * in.Size,
		Limit:           in.Size,
	})
}

type UpdateBookInput struct {
	Title           *string
	PublicationYear *int
	AuthorID        *uint64
	ISBN            *string
}

// UpdateBook 创建者或馆员及以上角色可改
func (s *BookService) UpdateBook(actorID uint64, actorRole pkg.Role, id uint64, in UpdateBookInput) (*model.Book, error) {
	book, err := s.books.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "book not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, book.CreatedBy, actorRole, pkg.RoleLibrarian); !d.Allowed {
		return nil, d.Forbidden()
	}

	updates := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, pkg.NewError(pkg.KindValidation, "title required")
		}
		updates["title"] = *in.Title
	}
	if in.PublicationYear != nil {
		if err = validateYear(*in.PublicationYear); err != nil {
			return nil, err
		}
		updates["publication_year"] = *in.PublicationYear
	}
	if in.AuthorID != nil {
		if _, err = s.authors.FindByID(*in.AuthorID); err != nil {
			return nil, storeErr(err, "author not found", "")
		}
		updates["author_id"] = *in.AuthorID
	}
	if in.ISBN != nil {
		if *in.ISBN == "" {
			updates["isbn"] = nil
		} else {
			if err = validateISBN(*in.ISBN); err != nil {
				return nil, err
			}
			updates["isbn"] = *in.ISBN
		}
	}
	if len(updates) == 0 {
		return nil, pkg.NewError(pkg.KindValidation, "nothing to update")
	}

	if err = s.books.Update(id, updates); err != nil {
		return nil, storeErr(err, "book not found", "isbn already exists")
	}
	return s.GetBook(id)
}

// DeleteBook 创建者或馆员及以上角色可删
func (s *BookService) DeleteBook(actorID uint64, actorRole pkg.Role, id uint64) error {
	book, err := s.books.FindByID(id)
	if err != nil {
		return storeErr(err, "book not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, book.CreatedBy, actorRole, pkg.RoleLibrarian); !d.Allowed {
		return d.Forbidden()
	}
	if _, err = s.books.Delete(id); err != nil {
		return pkg.WrapError(pkg.KindInternal, "delete book failed", err)
	}
	return nil
}
