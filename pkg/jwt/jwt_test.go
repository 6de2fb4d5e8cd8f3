package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"clockwise/backend/config"
)

const testSecret = "test-secret-key-at-least-16"

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("签发测试 Token 失败: %v", err)
	}
	return s
}

func validClaims() *Claims {
	return &Claims{
		UserID:         "user-1",
		Role:           "employee",
		BusinessUnitID: "bu-1",
		FirstName:      "San",
		LastName:       "Zhang",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwtv5.NewNumericDate(time.Now()),
		},
	}
}

func TestParseTokenSuccess(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: testSecret})
	tokenStr := signToken(t, testSecret, validClaims())

	claims, err := mgr.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "employee" || claims.BusinessUnitID != "bu-1" {
		t.Errorf("声明解析错误: %+v", claims)
	}
}

func TestParseTokenExpired(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: testSecret})
	claims := validClaims()
	claims.ExpiresAt = jwtv5.NewNumericDate(time.Now().Add(-time.Minute))

	_, err := mgr.ParseToken(signToken(t, testSecret, claims))
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired, 实际: %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: testSecret})

	_, err := mgr.ParseToken(signToken(t, "another-secret-key-16chr", validClaims()))
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid, 实际: %v", err)
	}
}

func TestParseTokenWrongSigningMethod(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: testSecret})

	// alg=none 必须被拒绝
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, validClaims())
	tokenStr, err := token.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造 none Token 失败: %v", err)
	}

	if _, err := mgr.ParseToken(tokenStr); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid, 实际: %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{JWTSecret: testSecret})
	if _, err := mgr.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid, 实际: %v", err)
	}
}

func TestFullName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"San", "Zhang", "San Zhang"},
		{"", "Zhang", "Zhang"},
		{"San", "", "San"},
		{"", "", ""},
	}
	for _, tc := range cases {
		c := &Claims{FirstName: tc.first, LastName: tc.last}
		if got := c.FullName(); got != tc.want {
			t.Errorf("FullName(%q, %q) = %q, 期望 %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestRemainingTTL(t *testing.T) {
	c := validClaims()
	ttl := c.RemainingTTL()
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("RemainingTTL 超出预期范围: %v", ttl)
	}

	c.ExpiresAt = nil
	if c.RemainingTTL() != 0 {
		t.Error("无过期时间时 RemainingTTL 应为 0")
	}
}
