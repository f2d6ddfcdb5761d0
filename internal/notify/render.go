package notify

import (
	"fmt"
	"strings"
)

// RenderedMail is a subject and HTML body ready for SMTP delivery.
type RenderedMail struct {
	Subject string
	Body    string
}

// Render produces the mail content for a notification kind. Unknown kinds get
// a generic update so a stale queue message still reaches the recipient.
func Render(kind Kind, to Recipient, p Payload) RenderedMail {
	name := to.Name
	if name == "" {
		name = "there"
	}
	job := p["jobTitle"]
	company := p["companyName"]

	switch kind {
	case KindMCQInvitation:
		return RenderedMail{
			Subject: fmt.Sprintf("MCQ Assessment for %s - %s", job, p["roundName"]),
			Body: wrap(fmt.Sprintf(
				`<p>Dear %s,</p>
<p>You've progressed to the <strong>%s</strong> round for the <strong>%s</strong> position at <strong>%s</strong>.</p>
<p>Please complete the assessment here: <a href="%s">Start MCQ Assessment</a></p>`,
				name, p["roundName"], job, company, p["formLink"])),
		}
	case KindCodingTest:
		return RenderedMail{
			Subject: fmt.Sprintf("Coding Test Invitation - %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Hi %s,</p>
<p>You have been shortlisted for the coding test round for the <strong>%s</strong> position at <strong>%s</strong>.</p>
<p>Duration: <strong>%s</strong>. The test link will be shared with you separately.</p>
<p>%s</p>`,
				name, job, company, orDefault(p["duration"], "TBD"), p["instructions"])),
		}
	case KindInterviewerAssigned:
		return RenderedMail{
			Subject: fmt.Sprintf("Interview Assignment - %s - %s", p["position"], p["candidateName"]),
			Body: wrap(fmt.Sprintf(
				`<p>Hello %s,</p>
<p>You have been assigned an interview (%s) for candidate <strong>%s</strong>, position <strong>%s</strong>.</p>
%s
<p>Please provide feedback after the interview in the admin panel.</p>`,
				name, p["mode"], p["candidateName"], p["position"], scheduleBlock(p))),
		}
	case KindCandidateScheduled:
		return RenderedMail{
			Subject: fmt.Sprintf("Interview Scheduled - %s", p["position"]),
			Body: wrap(fmt.Sprintf(
				`<p>Hello %s,</p>
<p>You have been scheduled for an interview (%s) for the <strong>%s</strong> position.</p>
%s
<p>Please be available at the scheduled time. Contact us immediately if you need to reschedule.</p>`,
				name, p["mode"], p["position"], scheduleBlock(p))),
		}
	case KindInterviewerScheduled:
		return RenderedMail{
			Subject: fmt.Sprintf("Interview Scheduled - %s - %s", p["position"], p["candidateName"]),
			Body: wrap(fmt.Sprintf(
				`<p>Hello %s,</p>
<p>Your interview with candidate <strong>%s</strong> for <strong>%s</strong> has been scheduled.</p>
%s`,
				name, p["candidateName"], p["position"], scheduleBlock(p))),
		}
	case KindNextRound:
		return RenderedMail{
			Subject: fmt.Sprintf("You've Advanced to the Next Round - %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Dear %s,</p>
<p>You've passed the previous round and moved forward in the hiring process for <strong>%s</strong> at <strong>%s</strong>.</p>
<p>Next round: <strong>%s</strong>. Our team will follow up with scheduling details.</p>`,
				name, job, company, p["nextRoundName"])),
		}
	case KindApplicationReceived:
		return RenderedMail{
			Subject: fmt.Sprintf("Application Confirmation for %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Dear %s,</p>
<p>Your application for <strong>%s</strong> at <strong>%s</strong> has been submitted. We will review it and get back to you soon.</p>`,
				name, job, company)),
		}
	case KindShortlisted:
		return RenderedMail{
			Subject: fmt.Sprintf("Congratulations! You've been shortlisted for %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Congratulations %s!</p>
<p>You've been shortlisted for <strong>%s</strong> at <strong>%s</strong>. The hiring team will be in touch for next steps.</p>`,
				name, job, company)),
		}
	case KindHired:
		return RenderedMail{
			Subject: fmt.Sprintf("Congratulations! You've been hired for %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Congratulations %s!</p>
<p>You've been selected for <strong>%s</strong> at <strong>%s</strong>. The team will contact you to discuss your offer. Welcome aboard!</p>`,
				name, job, company)),
		}
	case KindRejectedUnderReview:
		return RenderedMail{
			Subject: fmt.Sprintf("Application Update for %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Hello %s,</p>
<p>Thank you for applying for the %s position at %s. After careful review, we will not be moving forward with your application at this time.</p>
<p>We encourage you to apply for future opportunities.</p>`,
				name, job, company)),
		}
	case KindRejectedShortlisted:
		return RenderedMail{
			Subject: fmt.Sprintf("Application Update for %s", job),
			Body: wrap(fmt.Sprintf(
				`<p>Hello %s,</p>
<p>Thank you for taking the time to interview for the %s position at %s. After careful consideration, we will not be moving forward at this stage.</p>
<p>This was a difficult decision given the quality of candidates. We wish you the very best.</p>`,
				name, job, company)),
		}
	default:
		return RenderedMail{
			Subject: fmt.Sprintf("Update on your application at %s", company),
			Body:    wrap(fmt.Sprintf(`<p>Hello %s,</p><p>There is an update on your application. Please check your dashboard.</p>`, name)),
		}
	}
}

func scheduleBlock(p Payload) string {
	var b strings.Builder
	b.WriteString(`<ul>`)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, `<li><strong>%s:</strong> %s</li>`, label, value)
		}
	}
	row("Date", p["date"])
	row("Time", p["time"])
	row("Reporting Time", p["reportingTime"])
	row("Mode", p["mode"])
	if p["mode"] == "offline" {
		row("Venue", p["venue"])
		row("Address", p["address"])
		row("City", p["city"])
		row("Landmark", p["landmark"])
	} else {
		row("Platform", p["platform"])
		if link := p["meetingLink"]; link != "" {
			fmt.Fprintf(&b, `<li><strong>Meeting Link:</strong> <a href="%s">%s</a></li>`, link, link)
		}
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func wrap(inner string) string {
	return `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">` +
		inner +
		`<p>Best regards,<br>The HireHelp Team</p></div>`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
