package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Refresh  bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	walletRepo   repos.WalletRepo
	jwtSecretKey string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	walletRepo repos.WalletRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		walletRepo:   walletRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, password string) (*types.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || len(password) < 8 {
		return nil, apierr.BadRequest("invalid_credentials", errors.New("username required and password must be at least 8 characters"))
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("username_taken", fmt.Errorf("username %q already registered", username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{Username: username, PasswordHash: string(hash)}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		wallet := &types.Wallet{UserID: user.ID.String()}
		if _, err := as.walletRepo.Create(ctx, tx, wallet); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("User registered", "userID", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*types.User, *TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierr.New(http.StatusUnauthorized, "invalid_login", errors.New("invalid username or password"))
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apierr.New(http.StatusUnauthorized, "invalid_login", errors.New("invalid username or password"))
	}

	pair, err := as.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	as.log.Info("User logged in", "userID", user.ID)
	return user, pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := as.parseToken(refreshToken)
	if err != nil || !claims.Refresh {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_refresh_token", errors.New("invalid refresh token"))
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, claims.Username)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_refresh_token", errors.New("unknown user"))
	}
	return as.issueTokens(user)
}

func (as *authService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Refresh {
		return nil, errors.New("refresh token used as access token")
	}
	return claims, nil
}

func (as *authService) issueTokens(user *types.User) (*TokenPair, error) {
	access, err := as.signToken(user, as.accessTTL, false)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := as.signToken(user, as.refreshTTL, true)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (as *authService) signToken(user *types.User, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
