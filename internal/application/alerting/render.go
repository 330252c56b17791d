package alerting

import (
	"fmt"
	"html"
	"strings"

	"github.com/invorya/stock-alerts/internal/application/dto"
)

// renderDigest produce el asunto y los cuerpos (texto y HTML) del resumen.
// El transporte recibe esto ya renderizado; no hay plantillas del lado SMTP.
func renderDigest(companyName string, redCount, yellowCount int, items []dto.SweepItem) OutboundMessage {
	subject := fmt.Sprintf("Alertas de inventario — %d críticas, %d bajas (%s)",
		redCount, yellowCount, companyName)

	var plain strings.Builder
	fmt.Fprintf(&plain, "Resumen de alertas de inventario para %s\n\n", companyName)
	fmt.Fprintf(&plain, "Críticas (RED): %d\nBajas (YELLOW): %d\n\n", redCount, yellowCount)
	for _, it := range items {
		fmt.Fprintf(&plain, "[%s] %s (%s): %d en mano, reorden %d, %s días de stock, pedir %d\n",
			it.Tier, it.Name, it.SKU, it.OnHand, it.NewReorderPoint,
			it.DaysOfStock.String(), it.SuggestedQuantity)
	}

	var htmlBody strings.Builder
	fmt.Fprintf(&htmlBody, "<h2>Resumen de alertas de inventario — %s</h2>", html.EscapeString(companyName))
	fmt.Fprintf(&htmlBody, "<p>Críticas (RED): <b>%d</b> &middot; Bajas (YELLOW): <b>%d</b></p>", redCount, yellowCount)
	htmlBody.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	htmlBody.WriteString("<tr><th>Nivel</th><th>Producto</th><th>SKU</th><th>En mano</th><th>Reorden</th><th>Días de stock</th><th>Pedido sugerido</th></tr>")
	for _, it := range items {
		fmt.Fprintf(&htmlBody, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td><td>%d</td></tr>",
			it.Tier, html.EscapeString(it.Name), html.EscapeString(it.SKU),
			it.OnHand, it.NewReorderPoint, it.DaysOfStock.String(), it.SuggestedQuantity)
	}
	htmlBody.WriteString("</table>")

	return OutboundMessage{
		Subject:   subject,
		HTMLBody:  htmlBody.String(),
		PlainBody: plain.String(),
	}
}
