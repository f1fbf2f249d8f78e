package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when the username is taken
	ErrUserExists = errors.New("user already exists")
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

const hashPrefix = "v2:"

// preHash lets bcrypt accept passwords longer than 72 bytes
func preHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(preHash(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashPrefix + string(hashed), nil
}

func checkPassword(stored, password string) bool {
	if !strings.HasPrefix(stored, hashPrefix) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(strings.TrimPrefix(stored, hashPrefix)), []byte(preHash(password))) == nil
}

// CreateUser stores a dashboard administrator
func (dm *DatabaseManager) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password must not be empty")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, username, created_at
    `

	var user models.User
	err = dm.queryRow(ctx, query, username, hash).
		Scan(&user.ID, &user.Username, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ValidateUser checks username and password
func (dm *DatabaseManager) ValidateUser(ctx context.Context, username, password string) (*models.User, error) {
	query := `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1
    `

	var user models.User
	var passwordHash string
	err := dm.queryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &passwordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !checkPassword(passwordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
