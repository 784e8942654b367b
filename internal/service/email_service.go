package service

import (
	cryptoRand "crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"

	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/redis"
)

type EmailService struct {
	mailer *pkg.Mailer
	rds    *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{mailer: pkg.NewMailer(cfg), rds: &redis.EmailRepository{}}
}

var codeActions = map[string]string{
	redis.ScopeRegister: "注册",
	redis.ScopeReset:    "密码重置",
}

// randCode 验证码只在这里用，密码学随机的 n 位数字
func randCode(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

// SendCode 发送验证码邮件。先写 pending 键，邮件发出后才转 confirmed，
// 发送失败时清掉 pending，避免校验端读到没送达的验证码。
func (s *EmailService) SendCode(scope, email string) error {
	action, ok := codeActions[scope]
	if !ok {
		return pkg.NewError(pkg.KindValidation, "unknown code scope")
	}

	code, err := randCode(6)
	if err != nil {
		return pkg.WrapError(pkg.KindInternal, "generate code failed", err)
	}
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return pkg.WrapError(pkg.KindInternal, "store code failed", err)
	}

	if err = s.mailer.SendCode(email, action, code, redis.DefaultEmailCodeTTL); err != nil {
		_ = s.rds.DeleteCodePending(scope, email)
		return pkg.WrapError(pkg.KindInternal, "send email failed", err)
	}

	if err = s.rds.ConfirmCode(scope, email); err != nil {
		_ = s.rds.DeleteCodePending(scope, email)
		return pkg.WrapError(pkg.KindInternal, "confirm code failed", err)
	}

	return nil
}

// VerifyCode 校验验证码并一次性删除；验证码按常数时间比较
func (s *EmailService) VerifyCode(scope, email, code string) error {
	val, err := s.rds.GetCodeConfirmed(scope, email)
	if err != nil {
		return pkg.NewError(pkg.KindValidation, "verification code expired or not found")
	}
	if subtle.ConstantTimeCompare([]byte(val), []byte(code)) != 1 {
		return pkg.NewError(pkg.KindValidation, "verification code mismatch")
	}
	_ = s.rds.DeleteCodeConfirmed(scope, email)
	return nil
}
