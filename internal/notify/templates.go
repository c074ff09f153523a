package notify

import (
	"bytes"
	"html/template"
)

var otpTmpl = template.Must(template.New("send_otp").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>Use the following one-time passcode to verify your account. It expires in 10 minutes.</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>If you did not request this, you can safely ignore this email.</p>
  <p>Regards,<br>PG Hostel Team</p>
</body>
</html>`))

var resetTmpl = template.Must(template.New("reset_password").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. Use the code below, or follow the link:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Token}}</p>
  <p><a href="{{.BaseURL}}/authentication/reset-password?token={{.Token}}">Reset your password</a></p>
  <p>If you did not request this, you can safely ignore this email.</p>
  <p>Regards,<br>PG Hostel Team</p>
</body>
</html>`))

func renderOTP(name, code string) ([]byte, error) {
	var buf bytes.Buffer
	err := otpTmpl.Execute(&buf, struct{ Name, Code string }{name, code})
	return buf.Bytes(), err
}

func renderReset(name, token, baseURL string) ([]byte, error) {
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, struct{ Name, Token, BaseURL string }{name, token, baseURL})
	return buf.Bytes(), err
}
