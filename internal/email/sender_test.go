package email

import (
	"strings"
	"testing"
)

func TestBuildMessage_PlainHTML(t *testing.T) {
	body := string(BuildMessage("ops@villadesk.local", Message{
		To:       []string{"client@example.com"},
		Subject:  "Cleaning schedule",
		HTMLBody: "<p>see calendar</p>",
	}))
	if !strings.Contains(body, "Content-Type: text/html") {
		t.Fatalf("missing html content type:\n%s", body)
	}
	if strings.Contains(body, "multipart/mixed") {
		t.Fatalf("no attachment should mean no multipart:\n%s", body)
	}
	if !strings.Contains(body, "To: client@example.com") {
		t.Fatalf("missing recipient header:\n%s", body)
	}
}

func TestBuildMessage_WithAttachment(t *testing.T) {
	body := string(BuildMessage("ops@villadesk.local", Message{
		To:             []string{"client@example.com"},
		Subject:        "June export",
		HTMLBody:       "<p>attached</p>",
		Attachment:     []byte("DATE,VILLA\n01/06/2025,Casa Azul\n"),
		AttachmentName: "june.csv",
	}))
	if !strings.Contains(body, "multipart/mixed") {
		t.Fatalf("expected multipart message:\n%s", body)
	}
	if !strings.Contains(body, `filename="june.csv"`) {
		t.Fatalf("missing attachment disposition:\n%s", body)
	}
	if !strings.Contains(body, "Content-Transfer-Encoding: base64") {
		t.Fatalf("attachment must be base64 encoded:\n%s", body)
	}
}
