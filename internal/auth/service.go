package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
)

// UserRepository looks up login identities. GetByEmail returns nil on
// a miss so authentication failures stay indistinguishable from bad
// passwords.
type UserRepository interface {
	GetByEmail(email string) (*employeeDatamodel.User, error)
	GetByID(id int64) (*employeeDatamodel.User, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns a token pair.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	if user == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RefreshTokens exchanges a valid refresh token for a new pair. The
// user row is re-read so role changes propagate on refresh.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return AuthTokens{}, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	if user == nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *employeeDatamodel.User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
