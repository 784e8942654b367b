package pkg

import (
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Mailer 书友会的邮件出口，目前只发验证码这一类信
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendCode action 是给用户看的操作名（注册/密码重置），也作邮件主题
func (m *Mailer) SendCode(to, action, code string, ttl time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Lin书友会 · "+action)
	msg.SetBody("text/html", codeMailBody(action, code, ttl))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(msg)
}

func codeMailBody(action, code string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>您好，书友：</p><p>您正在 Lin书友会 进行 <b>%s</b> 操作，验证码为：<b style="font-size:18px;">%s</b>。</p><p>验证码 %d 分钟内有效，请勿转发或泄露。若非本人操作请忽略本邮件。</p>`,
		action, code, int(ttl.Minutes()))
}
