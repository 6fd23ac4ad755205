package line

import "testing"

func TestVerifySignature(t *testing.T) {
	secret := "test-channel-secret"
	body := []byte(`{"events":[{"type":"follow"}]}`)
	sig := SignBody(secret, body)

	if !VerifySignature(secret, body, sig) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifySignature(secret, []byte(`{"events":[]}`), sig) {
		t.Error("tampered body should not verify")
	}
	if VerifySignature("other-secret", body, sig) {
		t.Error("wrong secret should not verify")
	}
	if VerifySignature(secret, body, "") {
		t.Error("empty signature should not verify")
	}
	if VerifySignature(secret, body, "not base64!!") {
		t.Error("malformed signature should not verify")
	}
	if VerifySignature("", body, sig) {
		t.Error("empty secret should not verify")
	}
}

func TestReminderMessage(t *testing.T) {
	withName := ReminderMessage("田中", "https://app.example.com")
	if want := "田中さん、おはようございます！🌅"; withName[:len(want)] != want {
		t.Errorf("unexpected greeting: %q", withName)
	}

	anonymous := ReminderMessage("", "https://app.example.com")
	if anonymous[:len("おはようございます")] != "おはようございます" {
		t.Errorf("anonymous message should start with greeting: %q", anonymous)
	}
}
