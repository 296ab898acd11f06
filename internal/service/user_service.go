package service

import (
	"errors"

	"Tabletop_Community/internal/model"
	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/repository/mysql"
	"Tabletop_Community/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &redis.UserRepository{},
		emailSvc: &EmailService{rds: &redis.EmailRepository{}},
	}
}

func (s *UserService) Register(username, password, name, email, code string) error {
	// 验证邮箱验证码
	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Name:     name,
		Email:    email,
	}

	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	token, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	// 会话写入 redis，同账号异地登录互踢
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(user, string(hash))
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}

	return s.Logout(usrID)
}
