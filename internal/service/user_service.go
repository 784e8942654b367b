package service

import (
	"context"

	"Lin_BookClub/internal/model"
	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/mysql"
	"Lin_BookClub/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: &redis.SessionRepository{},
		emailSvc: NewEmailService(pkg.SMTPConfig{}),
	}
}

func (s *UserService) Register(username, password, email, code string) error {
	// 验证code是否正确
	if err := s.emailSvc.VerifyCode(redis.ScopeRegister, email, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkg.WrapError(pkg.KindInternal, "hash password failed", err)
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}

	if err = s.repo.Create(user); err != nil {
		return storeErr(err, "user not found", "username or email already taken")
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, pkg.NewError(pkg.KindUnauthenticated, "user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.NewError(pkg.KindUnauthenticated, "invalid password")
	}

	token, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "sign token failed", err)
	}
	// 将token写入redis，单会话
	if err = s.sessions.Save(ctx, user.ID, token.AccessToken); err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "store token failed", err)
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, usrID uint64) error {
	if err := s.sessions.Delete(ctx, usrID); err != nil {
		return pkg.WrapError(pkg.KindInternal, "logout failed", err)
	}
	return nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.RefreshPair(refreshToken)
	if err != nil {
		return nil, pkg.WrapError(pkg.KindUnauthenticated, "refresh failed", err)
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "token parse failed", err)
	}
	// 新access入库，旧会话作废
	if err = s.sessions.Save(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, pkg.WrapError(pkg.KindInternal, "store token failed", err)
	}
	return pair, nil
}

// ResetPassword 忘记密码：邮箱验证码兑换新密码
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.emailSvc.VerifyCode(redis.ScopeReset, email, code); err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return storeErr(err, "user not found", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkg.WrapError(pkg.KindInternal, "hash password failed", err)
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return pkg.WrapError(pkg.KindInternal, "update password failed", err)
	}
	// 密码变更后强制重新登录
	return s.Logout(ctx, user.ID)
}

// ChangePassword 登录态修改密码
func (s *UserService) ChangePassword(ctx context.Context, usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return storeErr(err, "user not found", "")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.NewError(pkg.KindValidation, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkg.WrapError(pkg.KindInternal, "hash password failed", err)
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return pkg.WrapError(pkg.KindInternal, "update password failed", err)
	}
	return s.Logout(ctx, usrID)
}

func (s *UserService) Profile(usrID uint64) (*model.User, error) {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return nil, storeErr(err, "user not found", "")
	}
	return user, nil
}

// UpdateProfile 只开放 bio 和 email
func (s *UserService) UpdateProfile(usrID uint64, bio, email *string) error {
	updates := map[string]any{}
	if bio != nil {
		updates["bio"] = *bio
	}
	if email != nil {
		if *email == "" {
			return pkg.NewError(pkg.KindValidation, "email required")
		}
		updates["email"] = *email
	}
	if len(updates) == 0 {
		return pkg.NewError(pkg.KindValidation, "nothing to update")
	}
	if err := s.repo.UpdateProfile(usrID, updates); err != nil {
		return storeErr(err, "user not found", "email already taken")
	}
	return nil
}

// DeleteUser 本人或管理员删除账号，连带清理全部从属数据
func (s *UserService) DeleteUser(ctx context.Context, actorID uint64, actorRole pkg.Role, targetID uint64) error {
	if d := pkg.OwnerOrRole(actorID, targetID, actorRole, pkg.RoleAdmin); !d.Allowed {
		return d.Forbidden()
	}
	if err := s.repo.DeleteCascade(ctx, targetID); err != nil {
		return storeErr(err, "user not found", "")
	}
	_ = s.sessions.Delete(ctx, targetID)
	return nil
}
