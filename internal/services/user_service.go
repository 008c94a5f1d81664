package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/repositories"
)

type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
	ListContacts(excludeID int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	authService  AuthService
	emailService EmailService
	uploader     Uploader
}

func NewUserService(repo repositories.UserRepository, authService AuthService, emailService EmailService, uploader Uploader) UserService {
	return &userService{
		repo:         repo,
		authService:  authService,
		emailService: emailService,
		uploader:     uploader,
	}
}

func (s *userService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)

	if fullName == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			// warn but do not fail signup
			log.Printf("[user][signup] warning: welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(id int) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) ListContacts(excludeID int) ([]*models.User, error) {
	return s.repo.List(excludeID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if v := strings.TrimSpace(req.FullName); v != "" {
		user.FullName = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		user.Email = v
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePic != "" {
		url, err := s.uploader.UploadImage(ctx, req.ProfilePic)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = url
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
