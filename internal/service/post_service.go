package service

import (
	"context"
	"time"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo *mysql.PostRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo: &mysql.PostRepository{DB: db},
	}
}

func (s *PostService) CreatePost(authorID uint64, title, content, tags string) (*model.Post, error) {
	if title == "" {
		return nil, pkg.NewError(pkg.KindValidation, "title required")
	}

	post := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Tags:     tags,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "create post failed", err)
	}
	return post, nil
}

func (s *PostService) GetPost(id uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "post not found", "")
	}
	return post, nil
}

// ListPosts 游标分页：首页不传 lastID/lastCreatedAt（或传 0）。
// 游标时间走 unix 纳秒，同一秒内的帖子翻页不会丢；
// 多取一条探测还有没有下一页，最后一页游标归零。
func (s *PostService) ListPosts(search string, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	var lastTime time.Time
	if lastCreatedAt > 0 {
		lastTime = time.Unix(0, lastCreatedAt)
	}
	list, err := s.repo.ListCursor(search, lastID, lastTime, size+1)
	if err != nil {
		return nil, 0, 0, pkg.WrapError(pkg.KindInternal, "list posts failed", err)
	}
	list, nextID, nextTS := trimPage(list, size)
	return list, nextID, nextTS, nil
}

// Feed 关注流：只包含当前用户关注对象的帖子，时间倒序；游标语义同 ListPosts
func (s *PostService) Feed(ctx context.Context, userID uint64, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	var lastTime time.Time
	if lastCreatedAt > 0 {
		lastTime = time.Unix(0, lastCreatedAt)
	}
	list, err := s.repo.Feed(ctx, userID, lastID, lastTime, size+1)
	if err != nil {
		return nil, 0, 0, pkg.WrapError(pkg.KindInternal, "feed query failed", err)
	}
	list, nextID, nextTS := trimPage(list, size)
	return list, nextID, nextTS, nil
}

// trimPage 按 size+1 的查询结果裁出一页；不满一页说明到底了，游标归零
func trimPage(list []model.Post, size int) ([]model.Post, uint64, int64) {
	if len(list) <= size {
		return list, 0, 0
	}
	list = list[:size]
	last := list[size-1]
	return list, last.ID, last.CreatedAt.UnixNano()
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    *string
}

// UpdatePost 本人或管理员可改；作者字段建帖后不可变
func (s *PostService) UpdatePost(actorID uint64, actorRole pkg.Role, id uint64, in UpdatePostInput) (*model.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, storeErr(err, "post not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, post.AuthorID, actorRole, pkg.RoleAdmin); !d.Allowed {
		return nil, d.Forbidden()
	}

	updates := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, pkg.NewError(pkg.KindValidation, "title required")
		}
		updates["title"] = *in.Title
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Tags != nil {
		updates["tags"] = *in.Tags
	}
	if len(updates) == 0 {
		return nil, pkg.NewError(pkg.KindValidation, "nothing to update")
	}

	if err = s.repo.Update(id, updates); err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "update post failed", err)
	}
	return s.GetPost(id)
}

// DeletePost 本人或管理员可删，级联清掉评论/点赞/相关通知
func (s *PostService) DeletePost(ctx context.Context, actorID uint64, actorRole pkg.Role, id uint64) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return storeErr(err, "post not found", "")
	}
	if d := pkg.OwnerOrRole(actorID, post.AuthorID, actorRole, pkg.RoleAdmin); !d.Allowed {
		return d.Forbidden()
	}
	if err = s.repo.DeleteCascade(ctx, id); err != nil {
		return storeErr(err, "post not found", "")
	}
	return nil
}
