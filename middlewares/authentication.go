package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rafhael-Viana/attendees/models"
)

type ctxKey string

const (
	CtxMemberID ctxKey = "member_id"
	CtxRoles    ctxKey = "roles"
)

type Claims struct {
	MemberID int64    `json:"member_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// IssueToken signs an HS256 token for the member, valid for ttl from now.
func IssueToken(secret string, m models.Member, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		MemberID: m.ID,
		Username: m.Username,
		Roles:    m.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(m.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so access_token in the query is accepted too.
func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		if t := r.URL.Query().Get("access_token"); t != "" {
			return t, nil
		}
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	if parts[1] == "" {
		return "", errors.New("empty token")
	}
	return parts[1], nil
}

// AuthJWT validates HS256 tokens and puts the member id and roles in the context.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, errors.New("unexpected signing method")
				}
				return secretBytes, nil
			})
			if err != nil || token == nil || !token.Valid {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			if claims.MemberID <= 0 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token claims"})
				return
			}

			ctx := WithMember(r.Context(), claims.MemberID, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithMember stores the authenticated member in ctx.
func WithMember(ctx context.Context, memberID int64, roles []string) context.Context {
	ctx = context.WithValue(ctx, CtxMemberID, memberID)
	return context.WithValue(ctx, CtxRoles, roles)
}

func MemberIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CtxMemberID).(int64)
	return id, ok && id > 0
}

func RolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(CtxRoles).([]string)
	return roles, ok
}
