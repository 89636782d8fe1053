package services

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService issues and parses RS256 access tokens. The token carries the
// session so the authorization gate can run without a store lookup.
type JWTService interface {
	GenerateAccessToken(u *models.User) (string, models.Session, error)
	ValidateToken(tokenString string) (*models.Session, error)
}

type jwtService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
}

func NewJWTService(cfg *config.Config) JWTService {
	return &jwtService{
		privateKey: cfg.RSAPrivateKey,
		publicKey:  cfg.RSAPublicKey,
		ttl:        cfg.AccessTokenTTL,
	}
}

func (j *jwtService) GenerateAccessToken(u *models.User) (string, models.Session, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(j.ttl)
	tokenID := uuid.NewString()

	claims := jwt.MapClaims{
		"iss":  constants.TokenIssuer,
		"sub":  u.ID.String(),
		"role": string(u.Role),
		"upc":  u.RequiresPasswordChange,
		"exp":  expiresAt.Unix(),
		"iat":  issuedAt.Unix(),
		"jti":  tokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(j.privateKey)
	if err != nil {
		return "", models.Session{}, err
	}

	s := u.Session()
	s.TokenID = tokenID
	s.ExpiresAt = time.Unix(expiresAt.Unix(), 0)
	return signed, s, nil
}

func (j *jwtService) ValidateToken(tokenString string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.publicKey, nil
	},
		jwt.WithIssuer(constants.TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid subject claim")
	}

	role := models.Role(stringClaim(claims, "role"))
	if !role.Valid() {
		return nil, errors.New("invalid role claim")
	}

	jti := stringClaim(claims, "jti")
	if jti == "" {
		return nil, errors.New("missing token id claim")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("missing expiration claim")
	}

	upc, _ := claims["upc"].(bool)
	return &models.Session{
		UserID:                 userID,
		Role:                   role,
		RequiresPasswordChange: upc,
		TokenID:                jti,
		ExpiresAt:              exp.Time,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
