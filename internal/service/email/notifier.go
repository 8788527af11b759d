// internal/service/email/notifier.go
package email

import (
	"context"
	"fmt"
	"html"

	"directory-service/internal/domain/claim"
	"directory-service/internal/domain/venue"
)

// ClaimNotifier tells the directory admin about new claim requests.
type ClaimNotifier struct {
	sender     Sender
	adminEmail string
}

func NewClaimNotifier(sender Sender, adminEmail string) *ClaimNotifier {
	return &ClaimNotifier{sender: sender, adminEmail: adminEmail}
}

func (n *ClaimNotifier) NotifyClaim(_ context.Context, c *claim.Request, v *venue.Venue) error {
	if n.adminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Nueva solicitud de reclamo: %s", v.Slug)
	return n.sender.Send(n.adminEmail, subject, claimBody(c, v))
}

func claimBody(c *claim.Request, v *venue.Venue) string {
	e := html.EscapeString
	return fmt.Sprintf(`<p>Se recibió una solicitud para administrar <strong>%s</strong> (%s).</p>
<ul>
	<li>Nombre: %s</li>
	<li>Correo: %s</li>
	<li>Teléfono: %s</li>
</ul>
<p>%s</p>
<p>Solicitud: %s</p>`,
		e(v.Name.Resolve("es")), e(v.Slug),
		e(c.Name), e(c.Email), e(c.Phone),
		e(c.Message),
		c.ID.String(),
	)
}
