package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// Roles mirror the register-closure workflow: an admin configures branches
// and users, a manager reviews and edits closures, a cashier records them.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleCashier = "Cashier"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'Cashier'" json:"role"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleCashier
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, errors.New("invalid username or password")
	}
	if err != nil {
		return nil, err
	}

	if !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	// track the session so Logout can revoke it
	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}
	if err := config.AddRedisSet("Tokens:"+user.Username, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token, user.Username, time.Duration(tokenLifespan)*time.Hour); err != nil {
		return nil, err
	}

	return &LoginInfo{Token: token, Name: user.Name, Role: user.Role}, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + fmt.Sprint(token)); err != nil {
		return false, err
	}
	return true, nil
}

// LogoutAll revokes every tracked session of the current user, not just
// the one behind the presented token.
func LogoutAll(ctx context.Context) (int, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return 0, errors.New("user id is required")
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return 0, err
	}

	tokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return 0, err
	}
	for _, t := range tokens {
		if err := config.RemoveRedisKey("Token:" + t); err != nil {
			return 0, err
		}
	}
	if err := config.RemoveRedisKey("Tokens:" + user.Username); err != nil {
		return 0, err
	}
	return len(tokens), nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if !validRole(input.Role) {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).
		Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("username already exists")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: input.Username,
		Name:     input.Name,
		Password: string(hashed),
		Role:     input.Role,
		IsActive: utils.NewTrue(),
	}
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return nil, fmt.Errorf("invalid email %q", input.Email)
		}
		user.Email = &input.Email
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var results []*User
	if err := db.WithContext(ctx).Order("username").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
