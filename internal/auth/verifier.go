package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is returned for any token that does not verify:
// bad signature, expired, or missing the expected claims.
var ErrInvalidCredential = errors.New("invalid credential")

// Verifier validates HS256 bearer tokens issued by the main backend.
// Expected claims: sub (user id), firstName, surname, role.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the token and returns the identity it carries.
func (v *Verifier) Verify(credential string) (models.Identity, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrInvalidCredential
	}

	userID, err := subjectID(claims)
	if err != nil {
		return models.Identity{}, ErrInvalidCredential
	}

	role := models.Role(strings.ToLower(stringClaim(claims, "role")))
	if !role.IsValid() {
		return models.Identity{}, ErrInvalidCredential
	}

	name := strings.TrimSpace(stringClaim(claims, "firstName") + " " + stringClaim(claims, "surname"))

	return models.Identity{
		ID:          userID,
		DisplayName: name,
		Role:        role,
	}, nil
}

// subjectID reads the sub claim, which the backend issues either as a string
// or as a bare number depending on the token version.
func subjectID(claims jwt.MapClaims) (uint, error) {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(id), nil
	case float64:
		if sub < 0 {
			return 0, fmt.Errorf("negative subject: %v", sub)
		}
		return uint(sub), nil
	default:
		return 0, fmt.Errorf("missing sub claim")
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
