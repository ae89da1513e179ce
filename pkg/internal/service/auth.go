package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeisme/muzicc/pkg/configs"
	mctx "github.com/yeisme/muzicc/pkg/context"
	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/types"
	nlog "github.com/yeisme/muzicc/pkg/log"
)

// AuthService 用户注册与登录.
type AuthService struct {
	db  *gorm.DB
	cfg *configs.AuthConfig
}

// NewAuthService 从 context 中取出数据库客户端构建服务实例.
func NewAuthService(c context.Context) *AuthService {
	dbClient := mctx.GetDBClient(c)
	if dbClient == nil || dbClient.DB == nil {
		nlog.Logger().Fatal().Msg("db client not initialized in context")
	}

	return newAuthService(dbClient.DB, &configs.GetConfig().Auth)
}

// newAuthService 直接注入依赖，测试入口.
func newAuthService(db *gorm.DB, cfg *configs.AuthConfig) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register 创建用户，口令以 bcrypt 散列落库.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login 校验邮箱口令并签发访问令牌. 邮箱不存在和口令不匹配
// 返回同一个错误，不泄露账号是否存在.
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", req.Email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := IssueToken(user.ID, s.cfg)
	if err != nil {
		return nil, err
	}

	return &types.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// IssueToken 为用户签发 HS256 访问令牌，subject 为用户 ID.
func IssueToken(userID uint, cfg *configs.AuthConfig) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.GetExpireDuration())),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken 校验令牌签名与有效期，返回 subject 中的用户 ID.
func ParseToken(raw string, cfg *configs.AuthConfig) (uint, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, errors.New("unexpected token claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token subject: %w", err)
	}

	return uint(userID), nil
}
