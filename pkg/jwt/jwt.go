package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos. Un "member" es un llamador restringido: el motor de
// consultas le inyecta el alcance obligatorio (actor propio + proyecto
// asignado); un "admin" no tiene alcance forzado.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Claims incluye los claims estándar JWT más los campos propios de la
// aplicación: identidad del actor, proyecto asignado y rol.
type Claims struct {
	jwt.RegisteredClaims
	Actor     string `json:"actor"`
	ProjectID string `json:"project_id"`
	Role      string `json:"role"` // "admin" | "member"
}

// Generate genera un token HS256 firmado con actor, proyecto y rol.
func Generate(secret, actor, projectID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Actor:     actor,
		ProjectID: projectID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve actor, proyecto y rol. Retorna error si
// el token es inválido, expiró o la firma no corresponde.
func Parse(secret, tokenString string) (actor, projectID, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims inválidos")
	}
	return claims.Actor, claims.ProjectID, claims.Role, nil
}
