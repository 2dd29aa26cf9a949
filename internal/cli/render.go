package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dagligdags/backend/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	storeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	reasonStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("7"))
)

func renderDeals(w io.Writer, deals []domain.ScoredDeal) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(" %-3s  %-5s  %-28s  %-10s  %-9s  %s", "#", "SCORE", "PRODUCT", "STORE", "PRICE", "VALID")))
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for i, d := range deals {
		valid := d.ValidUntil
		if valid == "" {
			valid = "-"
		}

		fmt.Fprintf(w, " %s  %s  %-28s  %s  %s  %s\n",
			rankStyle.Render(fmt.Sprintf("%-3d", i+1)),
			scoreStyle.Render(fmt.Sprintf("%-5.1f", d.MatchScore)),
			truncate(d.Product, 28),
			storeStyle.Render(fmt.Sprintf("%-10s", truncate(d.Store, 10))),
			priceStyle.Render(fmt.Sprintf("%-9s", formatPrice(d.Price))),
			valid,
		)
		fmt.Fprintf(w, "      %s\n", reasonStyle.Render(d.RecommendationReason))
	}
}

func renderBasket(w io.Writer, best domain.StoreCombination, requested int) {
	if best.IsEmpty() {
		fmt.Fprintln(w, "No store has deals for your shopping list.")
		return
	}

	covered := int(best.Coverage*float64(requested) + 0.5)

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Stores:"), storeStyle.Render(strings.Join(best.Stores, " + ")))
	fmt.Fprintf(w, "%s %d of %d items (%.0f%%)\n", labelStyle.Render("Coverage:"), covered, requested, best.Coverage*100)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Total:"), priceStyle.Render(fmt.Sprintf("%.2f kr", best.TotalPrice)))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, item := range best.Items {
		fmt.Fprintf(w, " %-12s  %-28s  %s  %s\n",
			truncate(item.Item, 12),
			truncate(item.Deal.Product, 28),
			storeStyle.Render(fmt.Sprintf("%-10s", truncate(item.Deal.Store, 10))),
			priceStyle.Render(fmt.Sprintf("%.2f kr", item.Price)),
		)
	}
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f kr", *price)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
