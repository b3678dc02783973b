package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveOperator   = errors.New("operator inactive")
)

type OperatorFinder interface {
	FindByUsername(ctx context.Context, username string) (*Operator, error)
}

type Operator struct {
	ID           string
	Username     string
	Name         string
	Role         string // kasir | admin
	PasswordHash string
	IsActive     bool
}

type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
	OperatorID  string `json:"operatorId"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

type OperatorLoginUsecase struct {
	finder    OperatorFinder
	jwtSecret []byte
	expMin    int
}

func NewOperatorLoginUsecase(finder OperatorFinder, jwtSecret string, expiresMinutes int) *OperatorLoginUsecase {
	if expiresMinutes <= 0 {
		expiresMinutes = 60
	}
	return &OperatorLoginUsecase{
		finder:    finder,
		jwtSecret: []byte(jwtSecret),
		expMin:    expiresMinutes,
	}
}

func (u *OperatorLoginUsecase) Execute(ctx context.Context, username, password string) (*LoginResult, error) {
	op, err := u.finder.FindByUsername(ctx, username)
	if err != nil {
		// Hide whether the username exists
		return nil, ErrInvalidCredentials
	}
	if !op.IsActive {
		return nil, ErrInactiveOperator
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	exp := now.Add(time.Duration(u.expMin) * time.Minute)

	claims := jwt.MapClaims{
		"sub":  op.ID,
		"typ":  "operator",
		"role": op.Role,
		"name": op.Name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   u.expMin * 60,
		OperatorID:  op.ID,
		Name:        op.Name,
		Role:        op.Role,
	}, nil
}
