package user_models

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/utils"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters.
const (
	Memory      = 64 * 1024
	Iterations  = 3
	Parallelism = 4
	SaltLength  = 16
	KeyLength   = 64
)

const accessTokenTTL = 24 * time.Hour

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User model.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func generateSalt(size int) ([]byte, error) {
	salt := make([]byte, size)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string) (string, error) {
	salt, err := generateSalt(SaltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)

	saltBase64 := base64.RawStdEncoding.EncodeToString(salt)
	hashBase64 := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s$%s", saltBase64, hashBase64), nil
}

// VerifyPassword verifies a password against a stored hash.
func VerifyPassword(password, storedHash string) (bool, error) {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid stored hash format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	computedHash := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1, nil
}

// GenerateAccessToken issues an HS256 JWT carrying the user id and admin
// flag.
func GenerateAccessToken(user *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"is_admin": user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(utils.GetJWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// CreateUser registers a new user with a hashed password.
func CreateUser(ctx context.Context, db *pgxpool.Pool, name, email, password string) (*User, error) {
	logger.InfoLogger.Infof("Attempting to register user %s", email)

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for user: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		logger.ErrorLogger.Errorf("Failed to check email availability for %s: %v", email, err)
		return nil, fmt.Errorf("database error checking email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin,
		user.CreatedAt, user.UpdatedAt,
	); err != nil {
		logger.ErrorLogger.Errorf("Failed to insert user %s: %v", email, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.InfoLogger.Infof("User %s registered", user.ID)
	return user, nil
}

// GetUserByEmail fetches a user by email.
func GetUserByEmail(ctx context.Context, db *pgxpool.Pool, email string) (*User, error) {
	return fetchUser(ctx, db, `WHERE email = $1`, email)
}

// GetUserByID fetches a user by id.
func GetUserByID(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (*User, error) {
	return fetchUser(ctx, db, `WHERE id = $1`, id)
}

func fetchUser(ctx context.Context, db *pgxpool.Pool, where string, arg interface{}) (*User, error) {
	user := &User{}
	query := `
		SELECT id, name, email, password_hash, is_admin, created_at, updated_at
		FROM users ` + where

	err := db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch user: %v", err)
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	return user, nil
}
