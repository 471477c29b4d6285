package quizroom

import "testing"

func TestPasscodeRoundTrip(t *testing.T) {
	passwords := []string{
		"opensesame",
		"open sesame",
		"a/b?c#d",
		"合言葉",
		"café ☕",
		"%2F already encoded",
	}
	for _, password := range passwords {
		segment := EncodePasscode(password)
		got, err := DecodePasscode(segment)
		if err != nil {
			t.Fatalf("decode %q: %v", segment, err)
		}
		if got != password {
			t.Fatalf("round trip of %q: got %q via %q", password, got, segment)
		}
	}
}

func TestDecodePasscodeMalformed(t *testing.T) {
	if _, err := DecodePasscode("%zz"); err == nil {
		t.Fatalf("expected error for malformed segment")
	}
}

func TestRoutes(t *testing.T) {
	if got := RoomRoute("合言葉"); got != "/room/"+EncodePasscode("合言葉") {
		t.Fatalf("unexpected room route: %q", got)
	}
	if got := GameRoute("a b"); got != "/game/a%20b" {
		t.Fatalf("unexpected game route: %q", got)
	}
}
