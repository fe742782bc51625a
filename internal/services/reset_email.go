package services

import "fmt"

// BuildResetCodeEmail renders the HTML body for the password reset mail.
// The code is shown in plaintext; only its hash is ever persisted.
func BuildResetCodeEmail(name string, code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 480px; margin: auto; padding: 24px; border: 1px solid #e5e7eb; border-radius: 12px;">
			<h2 style="color: #7c3aed; margin-bottom: 8px;">Password Reset</h2>
			<p style="color: #374151;">Hi <strong>%s</strong>,</p>
			<p style="color: #374151;">Enter the code below on the password reset page. It expires in <strong>15 minutes</strong>.</p>
			<div style="font-size: 40px; font-weight: bold; letter-spacing: 12px; color: #2563eb; margin: 28px 0; text-align: center; background: #eff6ff; padding: 16px; border-radius: 8px;">
				%s
			</div>
			<p style="color: #6b7280; font-size: 13px;">If you didn't request a password reset, you can safely ignore this email.</p>
		</div>
	`, name, code)
}
