package service

import (
	"errors"
	"log"

	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

var scopeSubjects = map[string]string{
	"register": "注册验证",
	"reset":    "重置密码",
}

// SendCode 发送验证码：先落 pending 键，邮件发出后原子转 confirmed
func (s *EmailService) SendCode(scope, email string) error {
	subject, ok := scopeSubjects[scope]
	if !ok {
		return errors.New("invalid scope")
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject+"验证码", html); err != nil {
		return err
	}

	if err = s.rds.ConfirmCode(scope, email); err != nil {
		// 确认失败就清掉 pending 键
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}
	log.Printf("verification code sent: scope=%s to=%s", scope, pkg.MaskEmail(email))
	return nil
}

// VerifyCode 校验验证码，命中后一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetCode(scope, email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
