package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"harvesthub/models"
	"harvesthub/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLen = 6

var roles = map[string]bool{"farmer": true, "advisor": true, "admin": true}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by signup and login.
type Session struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Service struct {
	users  UserStore
	tokens *Tokens
	cost   int
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return Session{}, utils.Validation("Name, email, and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, utils.Validation("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return Session{}, utils.Validation("Password must be at least 6 characters long")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = "farmer"
	}
	if !roles[role] {
		return Session{}, utils.Validation("Role must be farmer, advisor or admin")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Session{}, utils.Validation("User Already Exists")
	} else if !utils.IsNotFound(err) {
		return Session{}, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
		State:        strings.TrimSpace(in.State),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUserExists) {
			return Session{}, utils.Validation("User Already Exists")
		}
		return Session{}, fmt.Errorf("signup: %w", err)
	}
	return s.session(u)
}

// Login reports every credential mismatch as ErrInvalidCredentials so callers
// cannot probe which emails are registered.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return Session{}, ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFound(err) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return u, nil
}

func (s *Service) session(u *models.User) (Session, error) {
	id := u.ID.Hex()
	token, err := s.tokens.Issue(id, u.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}, nil
}
