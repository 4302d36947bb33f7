package auth

import (
	"context"
	"errors"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Dashboard sessions are short-lived by design; an operator logs back in
// rather than refreshing, so there is no refresh-token flow.
const accessTokenTTL = 8 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

// CreateAdmin provisions a dashboard operator account. Exposed through the
// seed-admin CLI only, never over HTTP.
func (s *Service) CreateAdmin(ctx context.Context, email, password, fullName string) (Admin, error) {
	if email == "" || password == "" {
		return Admin{}, errors.New("email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}

	admin := Admin{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO dashboard_admins (id, email, password_hash, full_name)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, admin.ID, admin.Email, admin.PasswordHash, admin.FullName)
	if err := row.Scan(&admin.CreatedAt); err != nil {
		return Admin{}, err
	}
	return admin, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Admin, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at
		FROM dashboard_admins WHERE email = $1
	`, req.Email)

	var admin Admin
	if err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.FullName, &admin.CreatedAt); err != nil {
		return Admin{}, TokenResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return Admin{}, TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(admin.ID, accessTokenTTL)
	if err != nil {
		return Admin{}, TokenResponse{}, err
	}

	return admin, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.AdminID, nil
}

func (s *Service) signToken(adminID string, ttl time.Duration) (string, error) {
	claims := Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
