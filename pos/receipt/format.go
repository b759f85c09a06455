// Package receipt renders menus and receipts as plain text.
package receipt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pos-receipt/pos/types"
)

const width = 40

// ParseLocale returns the language tag for s, falling back to Indonesian
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Indonesian
	}
	return tag
}

func money(p *message.Printer, amount int64) string {
	return p.Sprintf("Rp %d", amount)
}

func shortID(id string) string {
	if len(id) > 16 {
		return id[:16] + "..."
	}
	return id
}

// Format generates the human-readable receipt text
func Format(r types.Receipt, tag language.Tag) string {
	p := message.NewPrinter(tag)
	s := r.Summary
	var lines []string

	lines = append(lines, strings.Repeat("═", width))
	lines = append(lines, "               RECEIPT")
	lines = append(lines, strings.Repeat("═", width))
	lines = append(lines, p.Sprintf("Receipt #%d", r.Number))
	if r.SessionID != "" {
		lines = append(lines, "Session: "+shortID(r.SessionID))
	}
	if !r.IssuedAt.IsZero() {
		lines = append(lines, "Issued: "+r.IssuedAt.Format("2006-01-02 15:04"))
	}
	lines = append(lines, strings.Repeat("─", width))

	if len(s.Lines) == 0 {
		lines = append(lines, "(no items)")
	}
	for _, line := range s.Lines {
		lines = append(lines, p.Sprintf("%s x %d = %s", line.Name, line.Quantity, money(p, line.Subtotal)))
	}

	lines = append(lines, strings.Repeat("─", width))
	lines = append(lines, "Total: "+money(p, s.Total))
	if s.DiscountAmount != 0 {
		lines = append(lines, "Discount ("+s.DiscountPercent.String()+"%): -"+money(p, s.DiscountAmount))
		lines = append(lines, "Total after discount: "+money(p, s.TotalAfterDiscount))
	}
	lines = append(lines, strings.Repeat("═", width))
	lines = append(lines, "     Thank you for your purchase!")
	lines = append(lines, strings.Repeat("═", width))

	return strings.Join(lines, "\n")
}

// Menu renders the catalog view with the current quantity of each item.
// quantities may be shorter than catalog; missing entries show as zero.
func Menu(catalog types.Catalog, quantities types.QuantitySelection, tag language.Tag) string {
	p := message.NewPrinter(tag)
	var b strings.Builder

	b.WriteString("Menu\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	for i, item := range catalog {
		qty := 0
		if i < len(quantities) {
			qty = quantities[i]
		}
		b.WriteString(p.Sprintf("%2d. %-24s %12s  [%d]\n", i, item.Name, money(p, item.Price), qty))
	}
	if len(catalog) == 0 {
		b.WriteString("(empty)\n")
	}
	return b.String()
}
