package notify

import (
	"strings"
	"testing"
)

func TestRenderScheduleBlockByMode(t *testing.T) {
	base := Payload{
		"position":      "Backend Engineer",
		"candidateName": "Asha",
		"date":          "Monday, 02 Mar 2026",
		"time":          "10:00 UTC",
	}

	online := Payload{}
	for k, v := range base {
		online[k] = v
	}
	online["mode"] = "online"
	online["platform"] = "meet"
	online["meetingLink"] = "https://meet.test/abc"

	mail := Render(KindCandidateScheduled, Recipient{Name: "Asha", Email: "a@b.test"}, online)
	if !strings.Contains(mail.Body, "https://meet.test/abc") {
		t.Errorf("online mail missing meeting link:\n%s", mail.Body)
	}
	if strings.Contains(mail.Body, "Venue") {
		t.Errorf("online mail must not render venue rows:\n%s", mail.Body)
	}

	offline := Payload{}
	for k, v := range base {
		offline[k] = v
	}
	offline["mode"] = "offline"
	offline["venue"] = "HQ Tower"
	offline["reportingTime"] = "09:45 UTC"

	mail = Render(KindCandidateScheduled, Recipient{Name: "Asha", Email: "a@b.test"}, offline)
	if !strings.Contains(mail.Body, "HQ Tower") {
		t.Errorf("offline mail missing venue:\n%s", mail.Body)
	}
	if !strings.Contains(mail.Body, "09:45 UTC") {
		t.Errorf("offline mail missing reporting time:\n%s", mail.Body)
	}
}

func TestRenderFallsBackForUnknownKind(t *testing.T) {
	mail := Render(Kind("LEGACY_KIND"), Recipient{Name: "Asha"}, Payload{"companyName": "Acme"})
	if mail.Subject == "" || mail.Body == "" {
		t.Fatalf("unknown kind must still render a generic mail: %+v", mail)
	}
	if !strings.Contains(mail.Subject, "Acme") {
		t.Errorf("subject = %q, want company name included", mail.Subject)
	}
}

func TestRenderAddressesRecipientByName(t *testing.T) {
	mail := Render(KindShortlisted, Recipient{Name: "Asha", Email: "a@b.test"}, Payload{
		"jobTitle":    "Backend Engineer",
		"companyName": "Acme",
	})
	if !strings.Contains(mail.Body, "Asha") {
		t.Errorf("body does not address the recipient:\n%s", mail.Body)
	}
	if !strings.Contains(mail.Subject, "Backend Engineer") {
		t.Errorf("subject = %q, want job title", mail.Subject)
	}
}
