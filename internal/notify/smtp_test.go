package notify

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

func TestSMTPNotifierBuildsMail(t *testing.T) {
	var captured *gomail.Message
	n := NewSMTPNotifier("smtp.test", 587, "user", "pass", "noreply@hirehelp.test", "HireHelp")
	n.send = func(host string, port int, user, pass string, msg *gomail.Message) error {
		if host != "smtp.test" || port != 587 {
			t.Errorf("dial target = %s:%d", host, port)
		}
		captured = msg
		return nil
	}

	err := n.Send(context.Background(), KindShortlisted, Recipient{Name: "Asha", Email: "asha@example.com"}, Payload{
		"jobTitle":    "Backend Engineer",
		"companyName": "Acme",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if captured == nil {
		t.Fatal("send stub never called")
	}
	if got := captured.GetHeader("To"); len(got) != 1 || got[0] != "asha@example.com" {
		t.Errorf("To = %v", got)
	}
	if got := captured.GetHeader("Subject"); len(got) != 1 || !strings.Contains(got[0], "shortlisted") {
		t.Errorf("Subject = %v", got)
	}
}

func TestSMTPNotifierRequiresConfig(t *testing.T) {
	n := &SMTPNotifier{}
	if err := n.Send(context.Background(), KindHired, Recipient{Email: "a@b.test"}, nil); err == nil {
		t.Fatal("expected error for unconfigured notifier")
	}
}

func TestSMTPNotifierHonorsCancelledContext(t *testing.T) {
	n := NewSMTPNotifier("smtp.test", 587, "", "", "noreply@hirehelp.test", "HireHelp")
	called := false
	n.send = func(host string, port int, user, pass string, msg *gomail.Message) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Send(ctx, KindHired, Recipient{Email: "a@b.test"}, nil); err == nil {
		t.Fatal("expected context error")
	}
	if called {
		t.Fatal("send must not run after cancellation")
	}
}
