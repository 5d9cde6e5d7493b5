package worker

import (
	"fmt"
	"html"
	"strings"
)

// emailTemplate holds a subject and an HTML body with positional {{N}} placeholders
type emailTemplate struct {
	Subject string
	Body    string
}

var (
	missedLessonTemplate = emailTemplate{
		Subject: "ML Academy: kecha dars qoldirildi",
		Body: `<h2>Salom, {{1}}!</h2>
<p>Siz {{2}} kuni birorta ham dars yakunlamadingiz.</p>
<p>Bugun kamida bitta darsni ko'rib, ritmni tiklang.</p>
<p>ML Academy jamoasi</p>`,
	}

	testEmailTemplate = emailTemplate{
		Subject: "ML Academy: test xabar",
		Body: `<h2>Salom, {{1}}!</h2>
<p>Bu eslatmalar sozlamasini tekshirish uchun yuborilgan test xabar.</p>
<p>ML Academy jamoasi</p>`,
	}
)

// render replaces {{1}}, {{2}}, ... with the HTML-escaped values
func (t emailTemplate) render(values ...string) (string, string) {
	subject := t.Subject
	body := t.Body
	for i, value := range values {
		placeholder := fmt.Sprintf("{{%d}}", i+1)
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, html.EscapeString(value))
	}
	return subject, body
}
