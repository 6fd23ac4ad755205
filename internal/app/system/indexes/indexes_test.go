package indexes

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKeySig(t *testing.T) {
	cases := []struct {
		keys bson.D
		want string
	}{
		{bson.D{{Key: "email", Value: 1}}, "email:1"},
		{bson.D{{Key: "user_id", Value: 1}, {Key: "report_date", Value: -1}}, "user_id:1, report_date:-1"},
		{bson.D{}, ""},
	}
	for _, tc := range cases {
		if got := keySig(tc.keys); got != tc.want {
			t.Errorf("keySig(%v) = %q, want %q", tc.keys, got, tc.want)
		}
	}
}

func TestSameBoolPtr(t *testing.T) {
	tr, fa := true, false
	cases := []struct {
		a, b *bool
		want bool
	}{
		{nil, nil, true},
		{nil, &fa, true},
		{&tr, &tr, true},
		{&tr, nil, false},
		{&tr, &fa, false},
	}
	for _, tc := range cases {
		if got := sameBoolPtr(tc.a, tc.b); got != tc.want {
			t.Errorf("sameBoolPtr(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	if isDuplicateKeyErr(nil) {
		t.Error("nil should not be a duplicate key error")
	}
	we := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	if !isDuplicateKeyErr(we) {
		t.Error("write error code 11000 should be detected")
	}
	if !isDuplicateKeyErr(errors.New("E11000 duplicate key error index")) {
		t.Error("E11000 message should be detected")
	}
	if isDuplicateKeyErr(errors.New("connection refused")) {
		t.Error("unrelated error should not be detected")
	}
}

func TestIsOptionsConflictErr(t *testing.T) {
	if !isOptionsConflictErr(errors.New("(IndexOptionsConflict) Index with name: x already exists")) {
		t.Error("IndexOptionsConflict message should be detected")
	}
	if isOptionsConflictErr(nil) || isOptionsConflictErr(errors.New("other")) {
		t.Error("false positives")
	}
}
