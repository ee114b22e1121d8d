package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	hmac []byte
	ttl  time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{hmac: []byte(secret), ttl: ttl}
}

func (a *AuthService) TokenTTL() time.Duration { return a.ttl }

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "user" or "admin"
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "comrade-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// Users owns account registration and credential checks on top of a UserStore.
type Users struct {
	store UserStore
	now   func() time.Time
}

func NewUsers(store UserStore) *Users {
	return &Users{store: store, now: time.Now}
}

// Register creates an account. At least one of email or phone is required;
// duplicates of either report ErrUserExists.
func (u *Users) Register(ctx context.Context, name, email, phone, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return User{}, ErrInvalidCredentials
	}
	if email != "" {
		if _, err := u.store.GetByEmail(ctx, email); err == nil {
			return User{}, ErrUserExists
		}
	}
	if phone != "" {
		if _, err := u.store.GetByPhone(ctx, phone); err == nil {
			return User{}, ErrUserExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	usr := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PhoneNumber:  phone,
		Role:         RoleUser,
		CreatedAt:    u.now(),
		PasswordHash: string(hash),
	}
	if err := u.store.Create(ctx, usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Login resolves identifier as an email when it contains "@", otherwise as a
// phone number, and verifies the password.
func (u *Users) Login(ctx context.Context, identifier, password string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	var (
		usr User
		err error
	)
	if strings.Contains(identifier, "@") {
		usr, err = u.store.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		usr, err = u.store.GetByPhone(ctx, identifier)
	}
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	at := u.now()
	if err := u.store.TouchLastLogin(ctx, usr.ID, at); err != nil {
		return User{}, err
	}
	usr.LastLoginAt = &at
	return usr, nil
}

func (u *Users) Get(ctx context.Context, id string) (User, error) {
	return u.store.GetByID(ctx, id)
}
