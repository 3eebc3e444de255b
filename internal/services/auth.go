package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string, role types.Role) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	VerifyToken(ctx context.Context, tokenString string) (*types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (as *authService) TokenTTL() time.Duration { return as.tokenTTL }

func callerCan(ctx context.Context, c types.Capability) bool {
	rd := ctxutil.GetRequestData(ctx)
	return rd != nil && types.Role(rd.Role).Can(c)
}

func (as *authService) Register(ctx context.Context, email, password, firstName, lastName string, role types.Role) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierror.Validation("a valid email is required")
	}
	if len(password) < 8 {
		return nil, apierror.Validation("password must be at least 8 characters")
	}
	if role == "" {
		role = types.RoleAnalyst
	}
	if !role.Valid() {
		return nil, apierror.Validation("unknown role")
	}
	// Open registration only hands out the default role. Anything above it
	// must come from a caller who can manage users.
	if role != types.RoleAnalyst && !callerCan(ctx, types.CapManageUsers) {
		return nil, apierror.Forbidden("role assignment requires an administrator")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, apierror.Internal("check email", err)
	}
	if exists {
		return nil, apierror.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Internal("hash password", err)
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         role,
		IsActive:     true,
	}
	if err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, apierror.Internal("create user", err)
	}
	as.log.Info("User registered", "user_id", user.ID, "email", email, "role", role)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apierror.Validation("email and password are required")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apierror.Unauthorized("invalid credentials")
		}
		return nil, "", apierror.Internal("load user", err)
	}
	if !user.IsActive {
		return nil, "", apierror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		as.log.Warn("Failed login attempt", "email", email)
		return nil, "", apierror.Unauthorized("invalid credentials")
	}

	token, err := as.generateToken(user)
	if err != nil {
		return nil, "", apierror.Internal("generate token", err)
	}
	if err := as.userRepo.RecordLogin(ctx, nil, user.ID, time.Now().UTC()); err != nil {
		as.log.Warn("Failed to record login", "user_id", user.ID, "error", err)
	}
	as.log.Info("Successful login", "user_id", user.ID, "email", email)
	return user, token, nil
}

func (as *authService) generateToken(user *types.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecret)
}

func (as *authService) VerifyToken(ctx context.Context, tokenString string) (*types.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, apierror.Unauthorized("unknown user")
	}
	if !user.IsActive {
		return nil, apierror.Unauthorized("account disabled")
	}
	return user, nil
}

// SetContextFromToken verifies the bearer token and attaches the caller to
// the request context for downstream services and the audit writer.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	user, err := as.VerifyToken(ctx, tokenString)
	if err != nil {
		return ctx, err
	}
	rd := ctxutil.GetRequestData(ctx)
	requestID := ""
	if rd != nil {
		requestID = rd.RequestID
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		RequestID: requestID,
	}), nil
}
