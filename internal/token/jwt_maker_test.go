package token

import (
	"errors"
	"testing"
	"time"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestJWTMakerRoundTrip(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	if err != nil {
		t.Fatalf("failed to create maker: %v", err)
	}
	
	accessToken, payload, err := maker.CreateToken("student-1", "student", time.Minute)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	if accessToken == "" || payload == nil {
		t.Fatal("expected a token and a payload")
	}
	
	verified, err := maker.VerifyToken(accessToken)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if verified.Subject != "student-1" {
		t.Fatalf("expected subject student-1, got %q", verified.Subject)
	}
	if verified.Role != "student" {
		t.Fatalf("expected role student, got %q", verified.Role)
	}
}

func TestJWTMakerExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	if err != nil {
		t.Fatalf("failed to create maker: %v", err)
	}
	
	accessToken, _, err := maker.CreateToken("student-1", "student", -time.Minute)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	
	if _, err = maker.VerifyToken(accessToken); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTMakerInvalidToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	if err != nil {
		t.Fatalf("failed to create maker: %v", err)
	}
	
	if _, err = maker.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTMakerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTMaker("too-short"); err == nil {
		t.Fatal("expected an error for a short secret key")
	}
}
