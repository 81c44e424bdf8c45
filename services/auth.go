package services

import (
	"os"
	"strings"
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 30 * 24 * time.Hour

// AuthService handles parent account registration, login and profile
// management. Tokens are HMAC-signed JWTs carrying the user id and role.
type AuthService struct {
	DB     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		DB:     db,
		secret: []byte(os.Getenv("JWT_SECRET")),
	}
}

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a parent account and returns it with a signed token.
func (s *AuthService) Register(name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", utils.NewServerError("Error registering user", err)
	}
	if count > 0 {
		return nil, "", utils.NewConflictError("User already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", utils.NewServerError("Error registering user", err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, "", utils.NewServerError("Error registering user", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", utils.NewServerError("Error registering user", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", utils.NewUnauthorizedError("Invalid email or password")
		}
		return nil, "", utils.NewServerError("Error logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", utils.NewUnauthorizedError("Invalid email or password")
	}

	token, err := s.signToken(&user)
	if err != nil {
		return nil, "", utils.NewServerError("Error logging in", err)
	}
	return &user, token, nil
}

// GetUser loads one account by id.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, utils.NewServerError("Error fetching user", err)
	}
	return &user, nil
}

// UpdateProfile updates name and profile picture; email stays fixed.
func (s *AuthService) UpdateProfile(id, name, profilePicture string) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if profilePicture != "" {
		user.ProfilePicture = profilePicture
	}
	if err := s.DB.Save(user).Error; err != nil {
		return nil, utils.NewServerError("Error updating profile", err)
	}
	return user, nil
}

// ListUsers returns all accounts, admin only at the route level.
func (s *AuthService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, utils.NewServerError("Error fetching users", err)
	}
	return users, nil
}

// DeleteUser removes an account.
func (s *AuthService) DeleteUser(id string) error {
	res := s.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return utils.NewServerError("Error deleting user", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("User not found")
	}
	return nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	claims := AuthClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
