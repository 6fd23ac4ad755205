package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	role, name, id, ok := UserCtx(r)
	if ok {
		t.Fatal("expected ok=false for anonymous request")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("got (%q, %q, %v)", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "not-an-objectid", Role: "admin"})
	if _, _, _, ok := UserCtx(r); ok {
		t.Fatal("expected ok=false for malformed user ID")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	oid := primitive.NewObjectID()
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: oid.Hex(), Name: "Alice", Role: "Admin"})

	role, name, id, ok := UserCtx(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("role = %q, want admin (lowercased)", role)
	}
	if name != "Alice" || id != oid {
		t.Errorf("got (%q, %v)", name, id)
	}
}

func TestIsAdmin(t *testing.T) {
	oid := primitive.NewObjectID()
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: oid.Hex(), Role: "member"})
	if IsAdmin(r) {
		t.Error("member should not be admin")
	}
	if !IsMember(r) {
		t.Error("expected IsMember=true")
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2 = auth.WithTestUser(r2, &auth.SessionUser{ID: oid.Hex(), Role: "admin"})
	if !IsAdmin(r2) {
		t.Error("expected IsAdmin=true")
	}
}
