package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Lin_BookClub/internal/config"
	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"
	redisrepo "Lin_BookClub/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pkg.SetJWTSecrets("test-access", "test-refresh")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))

	mr := miniredis.RunT(t)
	old := redisrepo.Client
	redisrepo.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redisrepo.Client.Close()
		redisrepo.Client = old
	})

	return InitRouter(&config.Config{}, db), db
}

// registerAndLogin 直接落库再走登录接口拿 token
func registerAndLogin(t *testing.T, r *gin.Engine, db *gorm.DB, username string, role pkg.Role) (uint64, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username: username,
		Password: string(hash),
		Email:    username + "@example.com",
		Role:     int(role),
	}
	require.NoError(t, db.Create(u).Error)

	w := doJSON(r, http.MethodPost, "/api/user/login", "",
		map[string]any{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	return u.ID, body.AccessToken
}

func doJSON(r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndProfile(t *testing.T) {
	r, db := setupRouter(t)
	_, token := registerAndLogin(t, r, db, "sam", pkg.RoleMember)

	w := doJSON(r, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"sam"`)
	// 密码散列不过网络
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodPost, "/api/user/login", "",
		map[string]any{"username": "sam", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, db := setupRouter(t)
	_, token := registerAndLogin(t, r, db, "sam", pkg.RoleMember)

	w := doJSON(r, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 会话已销毁，签名仍有效的 token 也进不来
	w = doJSON(r, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	_, owner := registerAndLogin(t, r, db, "owner", pkg.RoleMember)
	_, stranger := registerAndLogin(t, r, db, "stranger", pkg.RoleMember)

	w := doJSON(r, http.MethodPost, "/api/auth/post", owner,
		map[string]any{"title": "hello", "content": "world"})
	require.Equal(t, http.StatusCreated, w.Code)

	var post model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.NotZero(t, post.ID)

	// 公开读
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/post/%d", post.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/post/list", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 非作者改不了
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/auth/post/%d", post.ID), stranger,
		map[string]any{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/auth/post/%d", post.ID), owner,
		map[string]any{"title": "hello v2"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/auth/post/%d", post.ID), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/auth/post/%d", post.ID), owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/post/%d", post.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeFlowOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	_, author := registerAndLogin(t, r, db, "author", pkg.RoleMember)
	_, fan := registerAndLogin(t, r, db, "fan", pkg.RoleMember)

	w := doJSON(r, http.MethodPost, "/api/auth/post", author,
		map[string]any{"title": "likeable", "content": "c"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	likePath := fmt.Sprintf("/api/auth/post/%d/like", post.ID)

	w = doJSON(r, http.MethodPost, likePath, fan, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 重复点赞 400
	w = doJSON(r, http.MethodPost, likePath, fan, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already liked")

	w = doJSON(r, http.MethodGet, likePath+"/count", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doJSON(r, http.MethodDelete, likePath, fan, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, likePath, fan, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowAndNotificationsOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	authorID, author := registerAndLogin(t, r, db, "author", pkg.RoleMember)
	fanID, fan := registerAndLogin(t, r, db, "fan", pkg.RoleMember)

	w := doJSON(r, http.MethodPost, "/api/auth/follow", fan,
		map[string]any{"user_id": authorID, "action": "follow"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changed":true`)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/auth/follow/relation?user_id=%d", authorID), fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"following":true`)

	// 被关注者收到了通知
	w = doJSON(r, http.MethodGet, "/api/auth/notifications?unread=true", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		List []model.Notification `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.List, 1)
	assert.Equal(t, model.VerbFollow, body.List[0].Verb)
	assert.Equal(t, fanID, body.List[0].ActorID)

	// 关注者不能标记别人的通知
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/auth/notifications/%d/read", body.List[0].ID), fan, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, "/api/auth/notifications/read-all", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":1`)

	// feed 里出现关注对象的帖子
	w = doJSON(r, http.MethodPost, "/api/auth/post", author,
		map[string]any{"title": "for my followers", "content": "c"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/auth/feed", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "for my followers")
}

func TestBookEndpointsOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	_, member := registerAndLogin(t, r, db, "member", pkg.RoleMember)
	_, librarian := registerAndLogin(t, r, db, "lib", pkg.RoleLibrarian)

	// 普通成员不能建作者
	w := doJSON(r, http.MethodPost, "/api/auth/author", member, map[string]any{"name": "Le Guin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/author", librarian, map[string]any{"name": "Le Guin"})
	require.Equal(t, http.StatusCreated, w.Code)
	var author model.Author
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &author))

	// 任何登录用户都能录入书目
	w = doJSON(r, http.MethodPost, "/api/auth/book", member, map[string]any{
		"title": "The Dispossessed", "publication_year": 1974, "author_id": author.ID, "isbn": "9780061054884",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 非法 ISBN 400
	w = doJSON(r, http.MethodPost, "/api/auth/book", member, map[string]any{
		"title": "Bad", "publication_year": 2000, "author_id": author.ID, "isbn": "12-34",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// ISBN 撞车 409
	w = doJSON(r, http.MethodPost, "/api/auth/book", member, map[string]any{
		"title": "Clone", "publication_year": 1975, "author_id": author.ID, "isbn": "9780061054884",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 公开检索
	w = doJSON(r, http.MethodGet, "/api/book/list?search=Dispossessed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Dispossessed")

	w = doJSON(r, http.MethodGet, "/api/book/list?order_by=password", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentsOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	_, author := registerAndLogin(t, r, db, "author", pkg.RoleMember)
	_, reader := registerAndLogin(t, r, db, "reader", pkg.RoleMember)

	w := doJSON(r, http.MethodPost, "/api/auth/post", author,
		map[string]any{"title": "discuss", "content": "c"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/auth/post/%d/comment", post.ID), reader,
		map[string]any{"content": "nice read"})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment model.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))

	// 评论列表公开
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/post/%d/comments", post.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nice read")

	// 只有评论作者（或管理员）能改
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/auth/comment/%d", comment.ID), author,
		map[string]any{"content": "edited by post author"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/auth/comment/%d", comment.ID), reader,
		map[string]any{"content": "edited"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/auth/comment/%d", comment.ID), reader, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTokenRefreshOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, db.Create(&model.User{
		Username: "sam", Password: string(hash), Email: "sam@example.com",
	}).Error)

	w := doJSON(r, http.MethodPost, "/api/user/login", "",
		map[string]any{"username": "sam", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	w = doJSON(r, http.MethodPost, "/api/token/refresh", "",
		map[string]any{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	var next struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
	require.NotEmpty(t, next.AccessToken)

	// 换出的新 access 立即可用
	w = doJSON(r, http.MethodGet, "/api/auth/profile", next.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/token/refresh", "",
		map[string]any{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
