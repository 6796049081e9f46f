package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	maxLoginAttempts = 5
	loginCooldown    = 15 * time.Minute
)

type Service struct {
	users *mongo.Collection
	redis *redis.Client // nil when Redis is absent; rate limiting is skipped
}

func NewService(db *mongo.Database, rdb *redis.Client) *Service {
	return &Service{users: db.Collection("users"), redis: rdb}
}

// Register creates a user with a bcrypt-hashed password and signs a token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(email)

	count, err := s.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrEmailExists
		}
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and signs a token. A deliberately identical
// error covers both the unknown-email and wrong-password cases.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(email)

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return &user, token, nil
}

// GetProfile returns the caller's own record.
func (s *Service) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func attemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", strings.ToLower(email))
}

// IsRateLimited reports whether email has burned through its login attempts.
// Without Redis this always allows the attempt.
func (s *Service) IsRateLimited(email string) bool {
	if s.redis == nil {
		return false
	}
	n, err := s.redis.Get(context.Background(), attemptsKey(email)).Int()
	if err != nil {
		return false
	}
	return n >= maxLoginAttempts
}

// GetRemainingCooldownTime returns how long until the attempt counter
// expires.
func (s *Service) GetRemainingCooldownTime(email string) time.Duration {
	if s.redis == nil {
		return 0
	}
	ttl, err := s.redis.TTL(context.Background(), attemptsKey(email)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// LogLoginAttempt counts a failed attempt against the email's cooldown
// window; a success clears the counter.
func (s *Service) LogLoginAttempt(email, ip string, success bool) {
	if s.redis == nil {
		return
	}
	ctx := context.Background()
	key := attemptsKey(email)

	if success {
		s.redis.Del(ctx, key)
		return
	}

	n, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[auth] failed to count login attempt: %v", err)
		return
	}
	if n == 1 {
		s.redis.Expire(ctx, key, loginCooldown)
	}
	log.Printf("[auth] failed login email=%s ip=%s attempts=%d", email, ip, n)
}
