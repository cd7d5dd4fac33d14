package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.NewString()
	token, err := GenerateToken(userID, "staff")
	if err != nil {
		t.Fatalf("tạo token lỗi: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token lỗi: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, mong đợi %s", claims.UserID, userID)
	}
	if claims.Role != "staff" {
		t.Errorf("Role = %s, mong đợi staff", claims.Role)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken(uuid.NewString(), "student")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := VerifyToken(token); err == nil {
		t.Fatal("token ký bằng secret khác phải bị từ chối")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := VerifyToken("abc.def.ghi"); err == nil {
		t.Fatal("chuỗi rác phải bị từ chối")
	}
}
